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

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEnumerateAritiesMatchesSpecExample exercises Testable Property 4
// verbatim: left=[[A],[B]], required=[C], right=[[D],[E]].
func TestEnumerateAritiesMatchesSpecExample(t *testing.T) {
	left := []Group[string]{{"A"}, {"B"}}
	required := Group[string]{"C"}
	right := []Group[string]{{"D"}, {"E"}}

	arities := EnumerateArities(left, required, right)

	var got [][]string
	for _, a := range arities {
		got = append(got, a.Params)
	}

	assert.Equal(t, [][]string{
		{"C"},
		{"B", "C"},
		{"C", "D"},
		{"A", "B", "C"},
		{"B", "C", "D"},
		{"C", "D", "E"},
		{"A", "B", "C", "D"},
		{"B", "C", "D", "E"},
		{"A", "B", "C", "D", "E"},
	}, got)
}

func TestEnumerateAritiesNoOptionalGroups(t *testing.T) {
	arities := EnumerateArities[string](nil, Group[string]{"X", "Y"}, nil)
	assert := assert.New(t)
	assert.Len(arities, 1)
	assert.Equal([]string{"X", "Y"}, arities[0].Params)
}
