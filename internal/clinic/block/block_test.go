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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() string {
	blk := Print(Block{DSLName: "clinic", Input: "mod.f\n    x: object\n", Output: "static PyObject *\nmod_f(...)\n{...}\n"}, "", "", nil)
	return "prose before\n" + blk + "prose after\n"
}

func TestParseRoundTrip(t *testing.T) {
	text := sampleFile()
	blocks, err := Parse(text, []string{"clinic"})
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "", blocks[0].DSLName)
	assert.Equal(t, "clinic", blocks[1].DSLName)
	assert.True(t, blocks[1].HadChecksum)
	assert.False(t, blocks[1].Dirty)
	assert.Equal(t, "", blocks[2].DSLName)

	rebuilt := blocks[0].Input + Print(blocks[1], "", "", nil) + blocks[2].Input
	assert.Equal(t, text, rebuilt)
}

func TestParseDetectsDirtyOutput(t *testing.T) {
	text := sampleFile()
	mutated := strings.Replace(text, "mod_f(...)", "mod_f_EDITED(...)", 1)
	blocks, err := Parse(mutated, []string{"clinic"})
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.True(t, blocks[1].Dirty)
}

func TestSortIncludes(t *testing.T) {
	in := []Include{
		{Name: "b.h"},
		{Name: "a.h", Condition: "defined(X)"},
		{Name: "a.h"},
	}
	out := SortIncludes(in)
	assert.Equal(t, []Include{
		{Name: "a.h"},
		{Name: "b.h"},
		{Name: "a.h", Condition: "defined(X)"},
	}, out)
}
