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

// Package converter defines the contract between the code generator and
// the (out-of-scope, per spec §1) converter libraries: typed fragment
// producers that turn one input value into a typed C variable, or a typed
// C return value back into an output value. Only the contract and a small
// built-in registry live here; real converter libraries are an external
// collaborator specified only by this interface.
package converter

// RenderData accumulates the fragments a Converter contributes to the
// generated parser body. Fields map 1:1 onto the destination fragments a
// single parameter can touch; the generator concatenates them across all of
// a function's parameters in parameter order.
type RenderData struct {
	Declarations  []string
	Initializers  []string
	Cleanup       []string
	PostParsing   []string
	ImplParams    []string // typed parameter in the impl prototype, e.g. "int x"
	ImplArgs      []string // argument expression in the impl call, e.g. "x"
	FormatUnits   []string // legacy PyArg_ParseTuple format-unit characters
	Keywords      []string // keyword name for _PyArg_Parser / kwlist
}

// Converter is the contract every parameter-level converter satisfies.
type Converter interface {
	// Name is the parameter's display name.
	Name() string
	// CIdentifier is the target C identifier this converter writes into.
	CIdentifier() string
	// FormatUnit is the legacy PyArg_Parse* format-unit character(s) this
	// converter corresponds to, used by the METH_VARARGS fallback path.
	FormatUnit() string
	// IsOptional reports whether the parameter has a default value.
	IsOptional() bool
	// ShowInSignature reports whether the docstring signature formatter
	// should render this parameter.
	ShowInSignature() bool
	// BrokenLimitedCAPI reports whether this converter cannot be used on
	// the limited-API code path.
	BrokenLimitedCAPI() bool
	// ParseArg returns a snippet that converts one input value (referenced
	// by argExpr) and jumps to "exit" on failure, or "" if only
	// format-unit based legacy parsing is available.
	ParseArg(argExpr, displayName string, limitedCAPI bool) string
	// Render appends this converter's fragments to data.
	Render(data *RenderData)
	// Includes lists extra #include requests this converter needs.
	Includes() []string
}

// ReturnConverter is the return-value half of the contract: it turns a
// typed C return value back into the host's result representation.
type ReturnConverter interface {
	// CType is the C type the impl function returns.
	CType() string
	// Render returns the conversion statement assigning into
	// "return_value" from the impl's raw result expression.
	Render(rawResult string) string
	Includes() []string
}

// SelfConverter marks the special receiver (self) converter: the first
// parameter of every Function, always positional-only.
type SelfConverter interface {
	Converter
	IsSelfConverter()
}

// DefiningClassConverter marks the optional second parameter that receives
// the type object a method was looked up on, per spec §4.5.
type DefiningClassConverter interface {
	Converter
	IsDefiningClassConverter()
}
