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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMap(t *testing.T) {
	tpl := Parse("static PyObject *\n{c_name}({args})\n{{braces stay}}\n")
	got, err := tpl.FormatMap(map[string]string{"c_name": "mod_f", "args": "PyObject *self"})
	require.NoError(t, err)
	assert.Equal(t, "static PyObject *\nmod_f(PyObject *self)\n{braces stay}\n", got)
}

func TestFormatMapMissingHole(t *testing.T) {
	tpl := Parse("{missing}")
	_, err := tpl.FormatMap(map[string]string{})
	assert.Error(t, err)
}

func TestLinearFormatPreservesIndentation(t *testing.T) {
	tpl := Parse("int x;\n    {lock}\nreturn_value = f();\n")
	got := tpl.LinearFormat(map[string]string{
		"lock": "Py_BEGIN_CRITICAL_SECTION(self);\nPy_END_CRITICAL_SECTION();",
	})
	assert.Equal(t, "int x;\n    Py_BEGIN_CRITICAL_SECTION(self);\n    Py_END_CRITICAL_SECTION();\nreturn_value = f();\n", got)
}

func TestLinearFormatEmptyHoleLeavesBlankLine(t *testing.T) {
	tpl := Parse("before\n{empty}\nafter\n")
	got := tpl.LinearFormat(map[string]string{})
	assert.Equal(t, "before\n\nafter\n", got)
}
