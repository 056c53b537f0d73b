// Copyright 2026 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package block splits a host source file into alternating prose and
// directive blocks, each guarded by a start/stop/checksum marker triple, and
// rewrites them idempotently. It never parses the surrounding C; it only
// recognizes its own marker lines.
package block

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Block is one segment of the host file: either prose (DSLName == "") or a
// directive block with its captured input/output text.
type Block struct {
	DSLName     string // empty for a prose block
	Input       string // text inside the directive, between start and stop markers
	Output      string // generated text, between stop and checksum markers
	OutputHash  string // checksum recorded in the file, if any
	InputHash   string // checksum recorded in the file, if any
	Line        int    // 1-based line number the block starts at
	HadChecksum bool   // true if this block already had a checksum line
	Dirty       bool   // true if the recorded checksum no longer matches
}

// markers returns the three marker-line regexes for a given dsl name.
// Forms, verbatim from the spec:
//
//	start:    /*[<dsl> input]
//	stop:     [<dsl> start generated code]*/
//	checksum: /*[<dsl> end generated code: output=<h1> input=<h2>]*/
func markers(dsl string) (start, stop, checksum *regexp.Regexp) {
	q := regexp.QuoteMeta(dsl)
	start = regexp.MustCompile(`^/\*\[` + q + ` input\]$`)
	stop = regexp.MustCompile(`^\[` + q + ` start generated code\]\*/$`)
	checksum = regexp.MustCompile(`^/\*\[` + q + ` end generated code: output=([0-9a-f]{16}) input=([0-9a-f]{16})\]\*/$`)
	return
}

// genericStart matches a start marker for any dsl name, used to discover
// which sub-parser should handle a block before we know its name.
var genericStart = regexp.MustCompile(`^/\*\[(\S+) input\]$`)

// Checksum returns the first 16 hex digits of a stable content hash of s.
// The hash must be reproducible across runs (Testable Property 2), so it
// is a plain content digest with no salting.
func Checksum(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// Parse splits text into a sequence of Blocks. dslNames restricts which
// directive names are recognized; a start marker for an unregistered name is
// treated as ordinary prose text.
func Parse(text string, dslNames []string) ([]Block, error) {
	known := make(map[string]bool, len(dslNames))
	for _, n := range dslNames {
		known[n] = true
	}

	var blocks []Block
	var prose strings.Builder
	proseStartLine := 1

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	lineNo := 0
	flushProse := func() {
		if prose.Len() > 0 {
			blocks = append(blocks, Block{Input: prose.String(), Line: proseStartLine})
			prose.Reset()
		}
	}

	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if m := genericStart.FindStringSubmatch(line); m != nil && known[m[1]] {
			flushProse()
			blk, err := parseOneBlock(sc, m[1], lineNo)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, blk)
			// Count the lines parseOneBlock consumed: input, stop marker,
			// output, and the checksum marker when present.
			lineNo += blk.consumedLines() + 1
			if blk.HadChecksum {
				lineNo++
			}
			proseStartLine = lineNo + 1
			continue
		}
		if prose.Len() == 0 {
			proseStartLine = lineNo
		}
		prose.WriteString(line)
		prose.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	flushProse()
	return blocks, nil
}

// consumedLines counts the input and output lines of a directive block, not
// including its marker lines.
func (b Block) consumedLines() int {
	n := strings.Count(b.Input, "\n") + strings.Count(b.Output, "\n")
	return n
}

func parseOneBlock(sc *bufio.Scanner, dsl string, startLine int) (Block, error) {
	_, stopRe, checksumRe := markers(dsl)

	var input strings.Builder
	for sc.Scan() {
		line := sc.Text()
		if stopRe.MatchString(line) {
			break
		}
		input.WriteString(line)
		input.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Block{}, err
	}

	var output strings.Builder
	hadChecksum := false
	var outHash, inHash string
	for sc.Scan() {
		line := sc.Text()
		if m := checksumRe.FindStringSubmatch(line); m != nil {
			hadChecksum = true
			outHash, inHash = m[1], m[2]
			break
		}
		output.WriteString(line)
		output.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Block{}, err
	}

	blk := Block{
		DSLName:     dsl,
		Input:       input.String(),
		Output:      output.String(),
		Line:        startLine,
		HadChecksum: hadChecksum,
		OutputHash:  outHash,
		InputHash:   inHash,
	}
	if hadChecksum {
		blk.Dirty = outHash != Checksum(blk.Output) || inHash != Checksum(blk.Input)
	}
	return blk, nil
}
