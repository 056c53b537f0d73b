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

// FragmentName is one of the ten named output fragments a destination
// preset routes (spec §4.7).
type FragmentName string

const (
	FragCppIf               FragmentName = "cpp_if"
	FragDocstringPrototype  FragmentName = "docstring_prototype"
	FragDocstringDefinition FragmentName = "docstring_definition"
	FragMethoddefDefine     FragmentName = "methoddef_define"
	FragImplPrototype       FragmentName = "impl_prototype"
	FragParserPrototype     FragmentName = "parser_prototype"
	FragParserDefinition    FragmentName = "parser_definition"
	FragCppEndif            FragmentName = "cpp_endif"
	FragMethoddefIfndef     FragmentName = "methoddef_ifndef"
	FragImplDefinition      FragmentName = "impl_definition"
)

// AllFragments lists the ten fragment names in the canonical order the
// block printer assembles them.
var AllFragments = []FragmentName{
	FragCppIf, FragDocstringPrototype, FragDocstringDefinition,
	FragMethoddefDefine, FragImplPrototype, FragParserPrototype,
	FragParserDefinition, FragCppEndif, FragMethoddefIfndef, FragImplDefinition,
}

// ParserBodySkeleton is the fixed parser-function skeleton every calling
// convention except the METH_O fast path fills in (spec §4.6). Holes left
// empty by a particular shape substitute as empty text under LinearFormat,
// leaving their line blank.
var ParserBodySkeleton = Parse(
	`{return_value_declaration}
{parser_declarations}
{declarations}
{initializers}
{parse_arguments}
{modifications}
{lock}
return_value = {impl_call};
{unlock}
{return_conversion}
{post_parsing}
{exit_label}{cleanup}
return return_value;
`)

// MethodDefTemplate renders one PyMethodDef table entry.
var MethodDefTemplate = Parse(
	`{{"{name}", {method_cast}{c_name}, {meth_flags}, {c_name}__doc__}},
`)

// DocstringVarTemplate renders the docstring literal variable.
var DocstringVarTemplate = Parse(
	`PyDoc_STRVAR({c_name}__doc__,
{docstring_literal});
`)

// ImplPrototypeTemplate renders the typed inner-implementation prototype
// authors implement by hand.
var ImplPrototypeTemplate = Parse(
	`static {return_type}
{c_name}_impl({impl_params});
`)

// ParserPrototypeTemplate renders the generated parser function's own
// prototype/definition header line.
var ParserPrototypeTemplate = Parse(
	`static {return_type}
{c_name}({parser_params})
`)

// CriticalSectionSingleLock wraps the impl call in a single-target critical
// section.
var CriticalSectionSingleLock = Parse(
	`Py_BEGIN_CRITICAL_SECTION({target});
{body}
Py_END_CRITICAL_SECTION();`)

// CriticalSectionTwoLocks wraps the impl call in a two-target critical
// section.
var CriticalSectionTwoLocks = Parse(
	`Py_BEGIN_CRITICAL_SECTION2({target1}, {target2});
{body}
Py_END_CRITICAL_SECTION2();`)

// DeprecationPositionalRuntime emits the runtime warning for a
// deprecated-positional parameter.
var DeprecationPositionalRuntime = Parse(
	`if ({nargs_check}) {
    if (PyErr_WarnEx(PyExc_DeprecationWarning,
            "Passing {params} as positional arguments to {name}() is deprecated and will become an error.", 1))
    {
        goto exit;
    }
}`)

// DeprecationPositionalCompileTime emits the compile-time banner.
var DeprecationPositionalCompileTime = Parse(
	`#if PY_VERSION_HEX >= {hex_version}
#  error "{name}: positional parameters {params} must be deprecated; remove this #if block"
#elif PY_VERSION_HEX >= {hex_version_minus_one}
#  warning "{name}: positional parameters {params} deprecated as of {version}; will be removed in the following release"
#endif`)

// DeprecationKeywordRuntime emits the runtime warning for a
// deprecated-keyword parameter.
var DeprecationKeywordRuntime = Parse(
	`if ({kwargs_check}) {
    if (PyErr_WarnEx(PyExc_DeprecationWarning,
            "Passing keyword argument{plural} {params} to {name}() is deprecated.", 1))
    {
        goto exit;
    }
}`)
