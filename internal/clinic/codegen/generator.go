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

// Package codegen turns one model.Function plus its chosen Shape into the
// named output fragments a destination preset routes (spec §4.6-4.7).
package codegen

import (
	"fmt"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/dslexpr"
	"github.com/clinicgen/clinic/internal/clinic/model"
	"github.com/clinicgen/clinic/internal/clinic/template"
)

// Output is the rendered text of every fragment the block printer may emit
// for one function.
type Output struct {
	Fragments map[template.FragmentName]string
	Includes  []string
}

// Generate renders fn (identified by id, already classified as shape) into
// its output fragments.
func Generate(cat *model.Catalog, id model.FuncID, shape Shape, limitedAPI bool) (Output, error) {
	fn := cat.Funcs.Get(int(id))
	params := make([]*model.Parameter, len(fn.Params))
	for i, pid := range fn.Params {
		params[i] = cat.Params.Get(int(pid))
	}

	g := &generation{cat: cat, fn: fn, params: params, shape: shape, limitedAPI: limitedAPI}
	return g.run()
}

type generation struct {
	cat        *model.Catalog
	fn         *model.Function
	params     []*model.Parameter
	shape      Shape
	limitedAPI bool
	includes   map[string]struct{}
}

func (g *generation) run() (Output, error) {
	g.includes = map[string]struct{}{}
	rd := converter.RenderData{}
	for _, p := range g.params {
		if p.Converter == nil {
			continue
		}
		p.Converter.Render(&rd)
		for _, inc := range p.Converter.Includes() {
			g.includes[inc] = struct{}{}
		}
	}
	if g.fn.ReturnConverter != nil {
		for _, inc := range g.fn.ReturnConverter.Includes() {
			g.includes[inc] = struct{}{}
		}
	}

	implParams := strings.Join(rd.ImplParams, ", ")
	if implParams == "" {
		implParams = "void"
	}
	implArgs := strings.Join(rd.ImplArgs, ", ")

	returnType := "PyObject *"
	returnConv := "return_value = result;"
	if g.fn.ReturnConverter != nil {
		returnType = g.fn.ReturnConverter.CType()
		returnConv = g.fn.ReturnConverter.Render("_return_value")
	}

	implCall := fmt.Sprintf("%s_impl(%s)", g.cBaseName(), implArgs)

	parseArguments, declarations, err := g.renderParseArguments(&rd)
	if err != nil {
		return Output{}, err
	}

	lock, unlock := g.renderCriticalSection()
	modifications := g.renderDeprecationChecks()

	body := template.ParserBodySkeleton.LinearFormat(map[string]string{
		"return_value_declaration": returnDeclLine(returnType, g.shape),
		"parser_declarations":      strings.Join(rd.Declarations, "\n"),
		"declarations":             declarations,
		"initializers":             strings.Join(rd.Initializers, "\n"),
		"parse_arguments":          parseArguments,
		"modifications":            modifications,
		"lock":                     lock,
		"impl_call":                implCall,
		"unlock":                   unlock,
		"return_conversion":        returnConv,
		"post_parsing":             strings.Join(rd.PostParsing, "\n"),
		"exit_label":               exitLabel(g.shape),
		"cleanup":                  strings.Join(rd.Cleanup, "\n"),
	})

	implPrototype, err := template.ImplPrototypeTemplate.FormatMap(map[string]string{
		"return_type": strings.TrimSuffix(returnType, " "),
		"c_name":      g.cBaseName(),
		"impl_params": implParams,
	})
	if err != nil {
		return Output{}, err
	}

	parserPrototype, err := template.ParserPrototypeTemplate.FormatMap(map[string]string{
		"return_type":   strings.TrimSuffix(returnType, " "),
		"c_name":        g.cName(),
		"parser_params": g.parserSignature(),
	})
	if err != nil {
		return Output{}, err
	}

	methodCast := methodCastFor(g.shape)
	methodDef, err := template.MethodDefTemplate.FormatMap(map[string]string{
		"name":       g.fn.DisplayName,
		"method_cast": methodCast,
		"c_name":      g.cName(),
		"meth_flags": MethFlags(g.shape, g.hasDefiningClass()),
	})
	if err != nil {
		return Output{}, err
	}

	docVar, err := template.DocstringVarTemplate.FormatMap(map[string]string{
		"c_name":           g.cBaseName(),
		"docstring_literal": dslexpr.CRepr(g.fn.Docstring),
	})
	if err != nil {
		return Output{}, err
	}

	frags := map[template.FragmentName]string{
		template.FragDocstringDefinition: docVar,
		template.FragMethoddefDefine:      methodDef,
		template.FragImplPrototype:        implPrototype,
		template.FragImplDefinition:       "",
	}
	if g.shape != ShapeOFastPath {
		frags[template.FragParserPrototype] = parserPrototype + "{\n"
		frags[template.FragParserDefinition] = body + "}\n"
	}

	includes := make([]string, 0, len(g.includes))
	for inc := range g.includes {
		includes = append(includes, inc)
	}
	return Output{Fragments: frags, Includes: includes}, nil
}

func (g *generation) cBaseName() string {
	if g.fn.CBaseName != "" {
		return g.fn.CBaseName
	}
	return strings.ReplaceAll(g.fn.FQName, ".", "_")
}

func (g *generation) cName() string {
	return g.cBaseName()
}

func (g *generation) hasDefiningClass() bool {
	for _, p := range g.params {
		if _, ok := p.Converter.(converter.DefiningClassConverter); ok {
			return true
		}
	}
	return false
}

// parserSignature renders the generated function's formal parameter list
// for the chosen shape (spec §4.6 per-shape prototypes).
func (g *generation) parserSignature() string {
	switch g.shape {
	case ShapeFastcallPositional:
		return "PyObject *self, PyObject *const *args, Py_ssize_t nargs"
	case ShapeGeneralKeywords:
		return "PyObject *self, PyObject *const *args, Py_ssize_t nargs, PyObject *kwnames"
	case ShapeVarargsGroups, ShapeVarargsKeywordsLimited:
		return "PyObject *self, PyObject *args, PyObject *kwargs"
	case ShapeMethodFastcallKeywordsNoArgs:
		return "PyObject *self, PyTypeObject *defining_class, PyObject *const *args, Py_ssize_t nargs, PyObject *kwnames"
	default:
		return "PyObject *self, PyObject *args"
	}
}

// renderParseArguments produces the body's argument-acquisition statements
// for the chosen shape. It returns extra local declarations the parse step
// itself requires (argsbuf, switch-case locals).
func (g *generation) renderParseArguments(rd *converter.RenderData) (string, string, error) {
	nonSelf := g.nonReceiverParams()
	switch g.shape {
	case ShapeNoArgs, ShapeGetter, ShapeSetter:
		return "", "", nil

	case ShapeOFastPath, ShapeO:
		if len(nonSelf) != 1 {
			return "", "", fmt.Errorf("shape O requires exactly one non-receiver parameter")
		}
		p := nonSelf[0]
		return p.Converter.ParseArg("arg", p.Name, g.limitedAPI), "", nil

	case ShapeFastcallPositional:
		return g.renderFastcallPositional(nonSelf)

	case ShapeGeneralKeywords, ShapeVarargsKeywordsLimited:
		return g.renderKeywordUnpack(nonSelf)

	case ShapeVarargsGroups:
		return g.renderOptionalGroupSwitch(nonSelf)

	default:
		return "", "", fmt.Errorf("unhandled shape %v", g.shape)
	}
}

// renderOptionalGroupSwitch builds a switch statement over PyTuple_GET_SIZE
// dispatching to the arity produced by EnumerateArities (spec §4.6.1).
func (g *generation) renderOptionalGroupSwitch(nonSelf []*model.Parameter) (string, string, error) {
	var left, right []Group[*model.Parameter]
	var required Group[*model.Parameter]
	var curNeg, curPos []Group[*model.Parameter]
	var negGroup, posGroup Group[*model.Parameter]
	lastGroup := 0
	for _, p := range nonSelf {
		if p.GroupID == 0 {
			required = append(required, p)
			continue
		}
		if p.GroupID != lastGroup {
			if lastGroup < 0 && len(negGroup) > 0 {
				curNeg = append(curNeg, negGroup)
				negGroup = nil
			}
			if lastGroup > 0 && len(posGroup) > 0 {
				curPos = append(curPos, posGroup)
				posGroup = nil
			}
			lastGroup = p.GroupID
		}
		if p.GroupID < 0 {
			negGroup = append(negGroup, p)
		} else {
			posGroup = append(posGroup, p)
		}
	}
	if len(negGroup) > 0 {
		curNeg = append(curNeg, negGroup)
	}
	if len(posGroup) > 0 {
		curPos = append(curPos, posGroup)
	}
	// curNeg is innermost-first (closest group last encountered before
	// required); EnumerateArities wants farthest-first with the last
	// element closest to required, which matches declaration order already.
	left = curNeg
	right = curPos

	arities := EnumerateArities(left, required, right)

	var b strings.Builder
	b.WriteString("switch (PyTuple_GET_SIZE(args)) {\n")
	for _, a := range arities {
		fmt.Fprintf(&b, "    case %d: {\n", len(a.Params))
		for i, p := range a.Params {
			fmt.Fprintf(&b, "        if (!%s) {\n            goto exit;\n        }\n",
				p.Converter.ParseArg(fmt.Sprintf("PyTuple_GET_ITEM(args, %d)", i), p.Name, g.limitedAPI))
		}
		b.WriteString("        break;\n    }\n")
	}
	b.WriteString("    default:\n        PyErr_SetString(PyExc_TypeError, \"bad number of arguments\");\n        goto exit;\n}\n")
	return b.String(), "", nil
}

// firstOptionalIndex returns the index of the first parameter in params that
// carries a plain default (model.Parameter.Default, the same signal Classify
// uses to fast-path a single non-optional parameter to ShapeO), on the
// assumption — enforced upstream by the DSL's group rules — that required
// parameters always precede optional ones. It returns len(params) if every
// parameter is required.
func firstOptionalIndex(params []*model.Parameter) int {
	for i, p := range params {
		if p.Default.Kind != 0 {
			return i
		}
	}
	return len(params)
}

// renderFastcallPositional renders the METH_FASTCALL, all-positional body
// (spec §4.6 point 4): every required parameter is read from args[i]
// unconditionally, but a trailing run of optional (plain-default,
// non-grouped) parameters is gated behind an explicit nargs comparison per
// parameter so a short positional call never reads past args[nargs-1].
// Once one positional slot is missing none of the following ones can be
// present either, so a single skip_optional_posonly label suffices.
func (g *generation) renderFastcallPositional(nonSelf []*model.Parameter) (string, string, error) {
	nrequired := firstOptionalIndex(nonSelf)

	var b strings.Builder
	for i, p := range nonSelf {
		if i >= nrequired {
			fmt.Fprintf(&b, "if (nargs < %d) {\n    goto skip_optional_posonly;\n}\n", i+1)
		}
		fmt.Fprintf(&b, "if (!%s) {\n    goto exit;\n}\n",
			p.Converter.ParseArg(fmt.Sprintf("args[%d]", i), p.Name, g.limitedAPI))
	}
	if nrequired < len(nonSelf) {
		b.WriteString("skip_optional_posonly:;\n")
	}
	return b.String(), "", nil
}

// renderKeywordUnpack renders the general keyword-parsing body (spec §4.6
// point 5): an argument-unpacker helper (_PyArg_UnpackKeywords for the
// core-only fastcall+kwnames shape, or its vararg cousin
// _PyArg_UnpackKeywordsWithVararg for the limited-API varargs+kwargs-dict
// shape) fills argsbuf from the real incoming arguments before any
// per-parameter conversion runs. Trailing optional parameters within each
// passing-convention bucket (positional-only, positional-or-keyword,
// keyword-only) are gated behind noptargs and the matching
// skip_optional_posonly/skip_optional_pos/skip_optional_kwonly label.
func (g *generation) renderKeywordUnpack(nonSelf []*model.Parameter) (string, string, error) {
	n := len(nonSelf)
	nrequired := firstOptionalIndex(nonSelf)
	limited := g.shape == ShapeVarargsKeywordsLimited

	var kw strings.Builder
	kw.WriteString("static const char * const _keywords[] = {")
	for _, p := range nonSelf {
		fmt.Fprintf(&kw, "\"%s\", ", p.Name)
	}
	kw.WriteString("NULL};\n")
	fmt.Fprintf(&kw, "static _PyArg_Parser _parser = {NULL, _keywords, \"%s\", 0};\n", g.fn.DisplayName)
	fmt.Fprintf(&kw, "PyObject *argsbuf[%d];\n", n)
	kw.WriteString("PyObject * const *fastargs;\n")
	if n > nrequired {
		kw.WriteString("Py_ssize_t noptargs;\n")
		if limited {
			fmt.Fprintf(&kw, "noptargs = (PyTuple_GET_SIZE(args) + (kwargs ? PyDict_GET_SIZE(kwargs) : 0)) - %d;\n", nrequired)
		} else {
			fmt.Fprintf(&kw, "noptargs = (nargs + (kwnames ? PyTuple_GET_SIZE(kwnames) : 0)) - %d;\n", nrequired)
		}
	}
	if limited {
		fmt.Fprintf(&kw, "fastargs = _PyArg_UnpackKeywordsWithVararg(args, kwargs, NULL, &_parser, %d, %d, 0, argsbuf);\n", nrequired, n)
	} else {
		fmt.Fprintf(&kw, "fastargs = _PyArg_UnpackKeywords(args, nargs, NULL, kwnames, &_parser, %d, %d, 0, argsbuf);\n", nrequired, n)
	}
	kw.WriteString("if (!fastargs) {\n    goto exit;\n}\n")

	i := 0
	for i < n {
		p := nonSelf[i]
		if i < nrequired {
			fmt.Fprintf(&kw, "if (!%s) {\n    goto exit;\n}\n",
				p.Converter.ParseArg(fmt.Sprintf("fastargs[%d]", i), p.Name, g.limitedAPI))
			i++
			continue
		}
		label := skipLabelForKind(p.Kind)
		fmt.Fprintf(&kw, "if (!noptargs) {\n    goto %s;\n}\n", label)
		for i < n && nonSelf[i].Kind == p.Kind {
			q := nonSelf[i]
			fmt.Fprintf(&kw, "if (fastargs[%d]) {\n", i)
			fmt.Fprintf(&kw, "    if (!%s) {\n        goto exit;\n    }\n",
				q.Converter.ParseArg(fmt.Sprintf("fastargs[%d]", i), q.Name, g.limitedAPI))
			kw.WriteString("    if (!--noptargs) {\n")
			fmt.Fprintf(&kw, "        goto %s;\n", label)
			kw.WriteString("    }\n}\n")
			i++
		}
		fmt.Fprintf(&kw, "%s:;\n", label)
	}

	return kw.String(), "", nil
}

// skipLabelForKind names the spec §4.6 point 5 skip-label matching a
// parameter passing convention.
func skipLabelForKind(kind model.ParamKind) string {
	switch kind {
	case model.PositionalOnly:
		return "skip_optional_posonly"
	case model.PositionalOrKeyword:
		return "skip_optional_pos"
	default:
		return "skip_optional_kwonly"
	}
}

func (g *generation) nonReceiverParams() []*model.Parameter {
	if len(g.params) == 0 {
		return nil
	}
	out := g.params[1:]
	if g.hasDefiningClass() && len(out) > 0 {
		out = out[1:]
	}
	return out
}

func (g *generation) renderCriticalSection() (lock, unlock string) {
	if !g.fn.CriticalSection {
		return "", ""
	}
	if g.fn.LockNames[1] == "" {
		t, _ := template.CriticalSectionSingleLock.FormatMap(map[string]string{
			"target": g.fn.LockNames[0], "body": "",
		})
		parts := strings.SplitN(t, "\n", 2)
		return parts[0], "Py_END_CRITICAL_SECTION();"
	}
	t, _ := template.CriticalSectionTwoLocks.FormatMap(map[string]string{
		"target1": g.fn.LockNames[0], "target2": g.fn.LockNames[1], "body": "",
	})
	parts := strings.SplitN(t, "\n", 2)
	return parts[0], "Py_END_CRITICAL_SECTION2();"
}

// renderDeprecationChecks emits the runtime warnings for every parameter
// carrying a DeprecatedPositional or DeprecatedKeyword marker.
func (g *generation) renderDeprecationChecks() string {
	var b strings.Builder
	for i, p := range g.nonReceiverParams() {
		if p.DeprecatedPositional != nil {
			snippet, _ := template.DeprecationPositionalRuntime.FormatMap(map[string]string{
				"nargs_check": fmt.Sprintf("nargs > %d", i),
				"params":      p.Name,
				"name":        g.fn.DisplayName,
			})
			b.WriteString(snippet)
			b.WriteString("\n")
		}
		if p.DeprecatedKeyword != nil {
			snippet, _ := template.DeprecationKeywordRuntime.FormatMap(map[string]string{
				"kwargs_check": g.keywordContainsCheck(p.Name),
				"plural":       "",
				"params":       p.Name,
				"name":         g.fn.DisplayName,
			})
			b.WriteString(snippet)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// keywordContainsCheck renders a real runtime containment check against the
// calling convention this shape's parser actually receives (spec §4.6
// "Deprecation emission"): a kwnames sequence for the fastcall-keywords
// shapes, or the kwargs dict for the limited-API varargs+kwargs shape.
func (g *generation) keywordContainsCheck(name string) string {
	if g.shape == ShapeVarargsKeywordsLimited {
		return fmt.Sprintf("kwargs && PyDict_GetItemString(kwargs, \"%s\") != NULL", name)
	}
	return fmt.Sprintf("kwnames && PySequence_Contains(kwnames, &_Py_ID(%s)) > 0", name)
}

func returnDeclLine(returnType string, shape Shape) string {
	if shape == ShapeOFastPath {
		return ""
	}
	return fmt.Sprintf("%sreturn_value;", returnType)
}

func exitLabel(shape Shape) string {
	switch shape {
	case ShapeNoArgs, ShapeGetter, ShapeSetter, ShapeOFastPath:
		return ""
	default:
		return "\nexit:\n"
	}
}

func methodCastFor(shape Shape) string {
	switch shape {
	case ShapeFastcallPositional:
		return "(PyCFunction)(void(*)(void))"
	case ShapeGeneralKeywords:
		return "(PyCFunction)(void(*)(void))"
	case ShapeMethodFastcallKeywordsNoArgs:
		return "(PyCFunction)(void(*)(void))"
	default:
		return ""
	}
}
