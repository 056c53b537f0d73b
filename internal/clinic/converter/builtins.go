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

package converter

import "fmt"

// baseConverter factors the bookkeeping every built-in converter shares.
type baseConverter struct {
	name       string
	cName      string
	optional   bool
	formatUnit string
	cType      string
}

func (c *baseConverter) Name() string                { return c.name }
func (c *baseConverter) CIdentifier() string          { return c.cName }
func (c *baseConverter) FormatUnit() string           { return c.formatUnit }
func (c *baseConverter) IsOptional() bool             { return c.optional }
func (c *baseConverter) ShowInSignature() bool        { return true }
func (c *baseConverter) BrokenLimitedCAPI() bool       { return false }
func (c *baseConverter) Includes() []string           { return nil }
func (c *baseConverter) ParseArg(argExpr, displayName string, limitedCAPI bool) string {
	return fmt.Sprintf("if (!%s_converter(%s, &%s)) {\n    goto exit;\n}\n", c.name, argExpr, c.cName)
}
func (c *baseConverter) Render(data *RenderData) {
	data.Declarations = append(data.Declarations, fmt.Sprintf("%s %s;", c.cType, c.cName))
	data.ImplParams = append(data.ImplParams, fmt.Sprintf("%s %s", c.cType, c.cName))
	data.ImplArgs = append(data.ImplArgs, c.cName)
	data.FormatUnits = append(data.FormatUnits, c.formatUnit)
	data.Keywords = append(data.Keywords, c.name)
}

type objectConverter struct{ baseConverter }

func newObjectConverter(name, cName string) Converter {
	return &objectConverter{baseConverter{name: name, cName: cName, formatUnit: "O", cType: "PyObject *"}}
}

type intConverter struct{ baseConverter }

func newIntConverter(name, cName string) Converter {
	return &intConverter{baseConverter{name: name, cName: cName, formatUnit: "i", cType: "int"}}
}

type strConverter struct{ baseConverter }

func newStrConverter(name, cName string) Converter {
	return &strConverter{baseConverter{name: name, cName: cName, formatUnit: "s", cType: "const char *"}}
}

type boolConverter struct{ baseConverter }

func newBoolConverter(name, cName string) Converter {
	return &boolConverter{baseConverter{name: name, cName: cName, formatUnit: "p", cType: "int"}}
}

type doubleConverter struct{ baseConverter }

func newDoubleConverter(name, cName string) Converter {
	return &doubleConverter{baseConverter{name: name, cName: cName, formatUnit: "d", cType: "double"}}
}

// selfConverter is the implicit receiver converter every Function's first
// parameter uses.
type selfConverter struct{ baseConverter }

// NewSelfConverter constructs the implicit receiver converter for cType
// (e.g. "MyObject *").
func NewSelfConverter(cType string) SelfConverter {
	return &selfConverter{baseConverter{name: "self", cName: "self", formatUnit: "", cType: cType}}
}
func (c *selfConverter) IsSelfConverter()    {}
func (c *selfConverter) ShowInSignature() bool { return false }

// definingClassConverter is the optional second parameter some method
// conventions capture (spec §4.5).
type definingClassConverter struct{ baseConverter }

func NewDefiningClassConverter() DefiningClassConverter {
	return &definingClassConverter{baseConverter{name: "cls", cName: "cls", cType: "PyTypeObject *"}}
}
func (c *definingClassConverter) IsDefiningClassConverter() {}
func (c *definingClassConverter) ShowInSignature() bool     { return false }

type objectReturnConverter struct{}

func newObjectReturnConverter() ReturnConverter { return objectReturnConverter{} }
func (objectReturnConverter) CType() string     { return "PyObject *" }
func (objectReturnConverter) Render(raw string) string {
	return fmt.Sprintf("return_value = %s;", raw)
}
func (objectReturnConverter) Includes() []string { return nil }

type intReturnConverter struct{}

func newIntReturnConverter() ReturnConverter { return intReturnConverter{} }
func (intReturnConverter) CType() string     { return "int" }
func (intReturnConverter) Render(raw string) string {
	return fmt.Sprintf("_return_value = %s;\nreturn_value = PyLong_FromLong((long)_return_value);", raw)
}
func (intReturnConverter) Includes() []string { return nil }

type boolReturnConverter struct{}

func newBoolReturnConverter() ReturnConverter { return boolReturnConverter{} }
func (boolReturnConverter) CType() string     { return "int" }
func (boolReturnConverter) Render(raw string) string {
	return fmt.Sprintf("_return_value = %s;\nreturn_value = PyBool_FromLong((long)_return_value);", raw)
}
func (boolReturnConverter) Includes() []string { return nil }

type noneReturnConverter struct{}

func newNoneReturnConverter() ReturnConverter { return noneReturnConverter{} }
func (noneReturnConverter) CType() string     { return "void" }
func (noneReturnConverter) Render(raw string) string {
	return fmt.Sprintf("%s;\nPy_RETURN_NONE;", raw)
}
func (noneReturnConverter) Includes() []string { return nil }
