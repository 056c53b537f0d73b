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

// Package destination implements the named output buffers, sidecar-file
// templates, and preset routing table generated fragments flow through
// (spec §4.7).
package destination

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the closed set of destination sinks (spec §3).
type Kind int

const (
	KindBuffer Kind = iota
	KindFile
	KindSuppress
)

// BufferSeries is an indexed series of text lists. series[i] is created on
// first touch; negative indices grow the series by prepending empty lists
// and shifting the logical-zero offset, the same explicit-offset
// bookkeeping the teacher's cursor tracks advancement with.
type BufferSeries struct {
	lists [][]string
	zero  int // lists[zero] is logical index 0
}

// NewBufferSeries returns an empty series with logical index 0 already
// allocated.
func NewBufferSeries() *BufferSeries {
	return &BufferSeries{lists: [][]string{nil}, zero: 0}
}

// Append adds text to the logical index, growing the series as needed.
func (s *BufferSeries) Append(index int, text string) {
	i := s.ensure(index)
	s.lists[i] = append(s.lists[i], text)
}

// ensure grows the backing slice so that the physical slot for index exists
// and returns that physical slot.
func (s *BufferSeries) ensure(index int) int {
	phys := index + s.zero
	if phys < 0 {
		grow := -phys
		prefix := make([][]string, grow)
		s.lists = append(prefix, s.lists...)
		s.zero += grow
		phys = index + s.zero
	}
	for phys >= len(s.lists) {
		s.lists = append(s.lists, nil)
	}
	return phys
}

// Render concatenates every logical index in ascending order; within an
// index, text is emitted in append order.
func (s *BufferSeries) Render() string {
	var b strings.Builder
	for _, lines := range s.lists {
		for _, line := range lines {
			b.WriteString(line)
		}
	}
	return b.String()
}

// Empty reports whether every logical index holds no text, used by the
// orchestrator's output-buffer-leakage check (spec §5).
func (s *BufferSeries) Empty() bool {
	for _, lines := range s.lists {
		if len(lines) > 0 {
			return false
		}
	}
	return true
}

// Clear discards every buffered fragment, resetting to a single empty slot.
func (s *BufferSeries) Clear() {
	s.lists = [][]string{nil}
	s.zero = 0
}

// Destination is a named sink generated fragments are routed to (spec §3).
type Destination struct {
	Name             string
	Kind             Kind
	FilenameTemplate string // only meaningful for Kind == KindFile
	Buffers          *BufferSeries
}

// New constructs a Destination of the given kind.
func New(name string, kind Kind, filenameTemplate string) *Destination {
	d := &Destination{Name: name, Kind: kind, FilenameTemplate: filenameTemplate}
	if kind == KindBuffer {
		d.Buffers = NewBufferSeries()
	}
	return d
}

// Write appends text at the destination's buffer index. Suppress
// destinations discard it; file destinations buffer it the same way buffer
// destinations do, allocating their series on the first write.
func (d *Destination) Write(index int, text string) {
	switch d.Kind {
	case KindBuffer:
		d.Buffers.Append(index, text)
	case KindSuppress:
		// discarded
	case KindFile:
		if d.Buffers == nil {
			d.Buffers = NewBufferSeries()
		}
		d.Buffers.Append(index, text)
	}
}

// ResolveFilename expands {dirname}/{basename}/{basename_root}/
// {basename_extension} against the host file's path (spec §4.7).
func (d *Destination) ResolveFilename(hostPath string) (string, error) {
	if d.Kind != KindFile {
		return "", fmt.Errorf("destination %q is not a file destination", d.Name)
	}
	dirname := filepath.Dir(hostPath)
	basename := filepath.Base(hostPath)
	ext := filepath.Ext(basename)
	root := strings.TrimSuffix(basename, ext)

	repl := strings.NewReplacer(
		"{dirname}", dirname,
		"{basename}", basename,
		"{basename_root}", root,
		"{basename_extension}", ext,
	)
	return repl.Replace(d.FilenameTemplate), nil
}
