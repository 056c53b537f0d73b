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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/dslexpr"
	"github.com/clinicgen/clinic/internal/clinic/model"
	"github.com/clinicgen/clinic/internal/clinic/template"
)

func newTestFunc(t *testing.T, reg *converter.Registry, fqName, display string, kind model.FunctionKind, paramNames []string) (*model.Catalog, model.FuncID) {
	t.Helper()
	cat := model.NewCatalog("mod")
	fid, err := cat.AddFunction(model.RootModule, 0, model.Function{
		FQName: fqName, DisplayName: display, Kind: kind, Docstring: "Do the thing.\n",
	})
	require.NoError(t, err)

	self, err := reg.Lookup("object", "self", "self")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "self", Converter: self})

	for _, name := range paramNames {
		c, err := reg.Lookup("int", name, name)
		require.NoError(t, err)
		cat.AddParameter(fid, model.Parameter{Name: name, Kind: model.PositionalOnly, Converter: c})
	}

	rc, err := reg.LookupReturn("object")
	require.NoError(t, err)
	cat.Funcs.Get(int(fid)).ReturnConverter = rc
	return cat, fid
}

func TestGenerateNoArgsShape(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat, fid := newTestFunc(t, reg, "mod.f", "f", model.KindNormal, nil)

	out, err := Generate(cat, fid, ShapeNoArgs, false)
	require.NoError(t, err)
	assert.Contains(t, out.Fragments[template.FragMethoddefDefine], "METH_NOARGS")
	assert.Contains(t, out.Fragments[template.FragParserDefinition], "mod_f_impl(self)")
}

func TestGenerateOShape(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat, fid := newTestFunc(t, reg, "mod.g", "g", model.KindNormal, []string{"x"})

	out, err := Generate(cat, fid, ShapeO, false)
	require.NoError(t, err)
	assert.Contains(t, out.Fragments[template.FragMethoddefDefine], "METH_O")
	assert.Contains(t, out.Fragments[template.FragParserDefinition], "x_converter")
	assert.Contains(t, out.Fragments[template.FragParserDefinition], "mod_g_impl(self, x)")
}

func TestGenerateFastcallPositionalShape(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat, fid := newTestFunc(t, reg, "mod.h", "h", model.KindNormal, []string{"x", "y"})

	out, err := Generate(cat, fid, ShapeFastcallPositional, false)
	require.NoError(t, err)
	assert.Contains(t, out.Fragments[template.FragParserPrototype], "Py_ssize_t nargs")
	body := out.Fragments[template.FragParserDefinition]
	assert.Contains(t, body, "args[0]")
	assert.Contains(t, body, "args[1]")
	assert.Contains(t, body, "mod_h_impl(self, x, y)")
}

// TestGenerateGeneralKeywordsShape exercises Testable Scenario S3,
// mod.open(path, /, mode='r', *, buffering=-1): positional-only required,
// positional-or-keyword optional, keyword-only optional, no groups. It
// checks that argsbuf is genuinely populated from the real input via
// _PyArg_UnpackKeywords before any parameter is read from it, and that the
// trailing optionals are each gated behind a skip-labeled noptargs check.
func TestGenerateGeneralKeywordsShape(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat := model.NewCatalog("mod")
	fid, err := cat.AddFunction(model.RootModule, 0, model.Function{
		FQName: "mod.open", DisplayName: "open", Kind: model.KindNormal, Docstring: "Open it.\n",
	})
	require.NoError(t, err)

	self, err := reg.Lookup("object", "self", "self")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "self", Converter: self})

	path, err := reg.Lookup("str", "path", "path")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "path", Kind: model.PositionalOnly, Converter: path})

	mode, err := reg.Lookup("str", "mode", "mode")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{
		Name: "mode", Kind: model.PositionalOrKeyword, Converter: mode,
		Default: dslexpr.Default{Kind: dslexpr.DefaultLiteral, CSurface: `"r"`},
	})

	buffering, err := reg.Lookup("int", "buffering", "buffering")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{
		Name: "buffering", Kind: model.KeywordOnly, Converter: buffering,
		Default: dslexpr.Default{Kind: dslexpr.DefaultLiteral, CSurface: "-1"},
	})

	rc, err := reg.LookupReturn("object")
	require.NoError(t, err)
	cat.Funcs.Get(int(fid)).ReturnConverter = rc

	out, err := Generate(cat, fid, ShapeGeneralKeywords, false)
	require.NoError(t, err)

	assert.Contains(t, out.Fragments[template.FragParserPrototype], "PyObject *kwnames")
	body := out.Fragments[template.FragParserDefinition]
	assert.Contains(t, body, "PyObject *argsbuf[3]")
	assert.Contains(t, body, "_PyArg_UnpackKeywords(args, nargs, NULL, kwnames, &_parser, 1, 3, 0, argsbuf)")
	// argsbuf must be unpacked before any parameter is read from the
	// unpacked fastargs array.
	unpackIdx := strings.Index(body, "_PyArg_UnpackKeywords(")
	firstReadIdx := strings.Index(body, "fastargs[0]")
	require.GreaterOrEqual(t, unpackIdx, 0)
	require.GreaterOrEqual(t, firstReadIdx, 0)
	assert.Less(t, unpackIdx, firstReadIdx)
	assert.Contains(t, body, "skip_optional_pos")
	assert.Contains(t, body, "skip_optional_kwonly")
	assert.Contains(t, body, "mod_open_impl(self, path, mode, buffering)")
}

// TestGenerateFastcallPositionalShapeWithOptional covers a non-grouped
// optional parameter under ShapeFastcallPositional, e.g. positional-only
// f(a, b=None): args[1] must be bounds-checked against nargs before it is
// ever read.
func TestGenerateFastcallPositionalShapeWithOptional(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat := model.NewCatalog("mod")
	fid, err := cat.AddFunction(model.RootModule, 0, model.Function{
		FQName: "mod.f", DisplayName: "f", Kind: model.KindNormal, Docstring: "Do it.\n",
	})
	require.NoError(t, err)

	self, err := reg.Lookup("object", "self", "self")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "self", Converter: self})

	a, err := reg.Lookup("int", "a", "a")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "a", Kind: model.PositionalOnly, Converter: a})

	b, err := reg.Lookup("object", "b", "b")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{
		Name: "b", Kind: model.PositionalOnly, Converter: b,
		Default: dslexpr.Default{Kind: dslexpr.DefaultLiteral, CSurface: "Py_None"},
	})

	rc, err := reg.LookupReturn("object")
	require.NoError(t, err)
	cat.Funcs.Get(int(fid)).ReturnConverter = rc

	out, err := Generate(cat, fid, ShapeFastcallPositional, false)
	require.NoError(t, err)
	body := out.Fragments[template.FragParserDefinition]
	assert.Contains(t, body, "if (nargs < 2)")
	assert.Contains(t, body, "goto skip_optional_posonly;")
	assert.Contains(t, body, "skip_optional_posonly:;")
	boundsCheckIdx := strings.Index(body, "if (nargs < 2)")
	readIdx := strings.Index(body, "args[1]")
	require.GreaterOrEqual(t, boundsCheckIdx, 0)
	require.GreaterOrEqual(t, readIdx, 0)
	assert.Less(t, boundsCheckIdx, readIdx)
}

// TestGenerateDeprecatedKeywordCheck mirrors Testable Property 5/S5: a
// deprecated keyword argument must compile to a real kwnames containment
// check, not an undeclared identifier.
func TestGenerateDeprecatedKeywordCheck(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat := model.NewCatalog("mod")
	fid, err := cat.AddFunction(model.RootModule, 0, model.Function{
		FQName: "mod.f", DisplayName: "f", Kind: model.KindNormal, Docstring: "Do it.\n",
	})
	require.NoError(t, err)

	self, err := reg.Lookup("object", "self", "self")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{Name: "self", Converter: self})

	old, err := reg.Lookup("int", "old", "old")
	require.NoError(t, err)
	cat.AddParameter(fid, model.Parameter{
		Name: "old", Kind: model.KeywordOnly, Converter: old,
		Default:           dslexpr.Default{Kind: dslexpr.DefaultLiteral, CSurface: "0"},
		DeprecatedKeyword: &dslexpr.Version{Major: 3, Minor: 14},
	})

	rc, err := reg.LookupReturn("object")
	require.NoError(t, err)
	cat.Funcs.Get(int(fid)).ReturnConverter = rc

	out, err := Generate(cat, fid, ShapeGeneralKeywords, false)
	require.NoError(t, err)
	body := out.Fragments[template.FragParserDefinition]
	assert.Contains(t, body, "kwnames && PySequence_Contains(kwnames, &_Py_ID(old)) > 0")
	assert.NotContains(t, body, "_used_kwarg_")
}

func TestGenerateVarargsGroupsShape(t *testing.T) {
	reg := converter.NewBuiltinRegistry()
	cat, fid := newTestFunc(t, reg, "mod.k", "k", model.KindNormal, nil)

	a, _ := reg.Lookup("int", "a", "a")
	b, _ := reg.Lookup("int", "b", "b")
	c, _ := reg.Lookup("int", "c", "c")
	cat.AddParameter(fid, model.Parameter{Name: "a", Kind: model.PositionalOnly, Converter: a, GroupID: -1})
	cat.AddParameter(fid, model.Parameter{Name: "b", Kind: model.PositionalOnly, Converter: b})
	cat.AddParameter(fid, model.Parameter{Name: "c", Kind: model.PositionalOnly, Converter: c, GroupID: 1})
	cat.Funcs.Get(int(fid)).HasOptionalGroups = true

	out, err := Generate(cat, fid, ShapeVarargsGroups, false)
	require.NoError(t, err)
	body := out.Fragments[template.FragParserDefinition]
	assert.Contains(t, body, "switch (PyTuple_GET_SIZE(args))")
	assert.Contains(t, body, "case 1:")
	assert.Contains(t, body, "case 2:")
	assert.Contains(t, body, "case 3:")
}
