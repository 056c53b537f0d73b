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

package block

import (
	"cmp"
	"slices"
	"strings"
)

// Include is a single #include line owned by the orchestrator, attributed
// to the directive that requested it and an optional preprocessor
// condition under which it must be emitted.
type Include struct {
	Name      string
	Reason    string
	Condition string // empty means unconditional
}

// SortIncludes orders includes stably by (condition, filename), matching
// the teacher's composite-key stable-sort style for generated output.
func SortIncludes(includes []Include) []Include {
	out := slices.Clone(includes)
	slices.SortStableFunc(out, func(a, b Include) int {
		if d := cmp.Compare(a.Condition, b.Condition); d != 0 {
			return d
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Print renders one block as a start marker, the (optionally prefixed)
// input, the stop marker, the sorted #include block, the generated output,
// and a freshly computed checksum line. Prose blocks are written verbatim.
func Print(blk Block, linePrefix, lineSuffix string, includes []Include) string {
	if blk.DSLName == "" {
		return blk.Input
	}

	var b strings.Builder
	b.WriteString("/*[" + blk.DSLName + " input]\n")
	writePrefixed(&b, blk.Input, linePrefix, lineSuffix)
	b.WriteString("[" + blk.DSLName + " start generated code]*/\n")

	for _, inc := range SortIncludes(includes) {
		line := "#include \"" + inc.Name + "\""
		if inc.Reason != "" {
			line += "  // " + inc.Reason
		}
		if inc.Condition != "" {
			b.WriteString("#if " + inc.Condition + "\n")
			b.WriteString(line + "\n")
			b.WriteString("#endif\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	b.WriteString(blk.Output)
	if blk.Output != "" && !strings.HasSuffix(blk.Output, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("/*[" + blk.DSLName + " end generated code: output=" +
		Checksum(blk.Output) + " input=" + Checksum(blk.Input) + "]*/\n")
	return b.String()
}

func writePrefixed(b *strings.Builder, text, prefix, suffix string) {
	if text == "" {
		return
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for _, l := range lines {
		if prefix == "" && suffix == "" {
			b.WriteString(l)
		} else {
			b.WriteString(prefix)
			b.WriteString(l)
			b.WriteString(suffix)
		}
		b.WriteByte('\n')
	}
}
