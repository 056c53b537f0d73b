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

package model

import (
	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/dslexpr"
)

type (
	// ModuleID addresses a Module in the owning Catalog's module arena.
	// RootModule (1) is the root module (the orchestrator itself); 0 means
	// "no module" and is the root's Parent.
	ModuleID int
	// ClassID addresses a Class. 0 means "no class" (function is a direct
	// module member).
	ClassID int
	// FuncID addresses a Function.
	FuncID int
	// ParamID addresses a Parameter.
	ParamID int
)

// FunctionKind is the closed set of calling-convention shapes a Function may
// request (spec §3).
type FunctionKind int

const (
	KindNormal FunctionKind = iota
	KindStaticMethod
	KindClassMethod
	KindConstructorInit
	KindConstructorNew
	KindGetter
	KindSetter
)

// ParamKind is the closed set of parameter passing conventions (spec §3).
type ParamKind int

const (
	PositionalOnly ParamKind = iota
	PositionalOrKeyword
	KeywordOnly
	VarPositional
)

// Module is a named namespace owning child modules, classes, and functions.
type Module struct {
	Name     string
	Parent   ModuleID // 0 for the root
	Modules  []ModuleID
	Classes  []ClassID
	Funcs    []FuncID
}

// Class is a named type within a module or another class.
type Class struct {
	Name          string
	ParentModule  ModuleID
	ParentClass   ClassID // 0 if the owner is ParentModule, not another class
	CType         string  // opaque C typedef name
	CTypeObject   string  // opaque C type-object expression
	Classes       []ClassID
	Funcs         []FuncID
}

// Parameter is one entry of a Function's ordered parameter map (spec §3).
type Parameter struct {
	Name      string
	CName     string // override C identifier; "" means derive from Name
	Kind      ParamKind
	Converter converter.Converter
	Default   dslexpr.Default
	GroupID   int // 0 = required; negative before, positive after
	DeprecatedPositional *dslexpr.Version
	DeprecatedKeyword    *dslexpr.Version
	Docstring string
	ShowInSignature bool
}

// Function is the central record of the data model (spec §3).
type Function struct {
	FQName      string // fully-qualified dotted name
	DisplayName string // dotted display form
	CBaseName   string
	Module      ModuleID
	Class       ClassID // 0 if a plain module-level function

	Params []ParamID // insertion order is the canonical argument order;
	// Params[0] is always the receiver ("self") parameter.

	ReturnConverter converter.ReturnConverter
	Kind            FunctionKind
	Coexist         bool

	CriticalSection bool
	LockNames       [2]string // up to two target-lock names

	Docstring           string
	HasOptionalGroups   bool
	TextSignatureOverride string
}

// Catalog owns every Module/Class/Function/Parameter arena for one file's
// processing. The root module (handle 1) always exists and represents the
// orchestrator's own top-level namespace.
type Catalog struct {
	Modules    Arena[Module]
	Classes    Arena[Class]
	Funcs      Arena[Function]
	Params     Arena[Parameter]
	byFQName   map[string]FuncID
}

// NewCatalog creates a Catalog with its root module already allocated.
func NewCatalog(rootName string) *Catalog {
	c := &Catalog{byFQName: map[string]FuncID{}}
	c.Modules.add(Module{Name: rootName})
	return c
}

// RootModule is always ModuleID 1.
const RootModule ModuleID = 1

// AddModule creates a child module of parent and returns its ID.
func (c *Catalog) AddModule(parent ModuleID, name string) ModuleID {
	id := ModuleID(c.Modules.add(Module{Name: name, Parent: parent}))
	c.Modules.Get(int(parent)).Modules = append(c.Modules.Get(int(parent)).Modules, id)
	return id
}

// AddClass creates a class under a module.
func (c *Catalog) AddClass(parentModule ModuleID, name, cType, cTypeObject string) ClassID {
	id := ClassID(c.Classes.add(Class{Name: name, ParentModule: parentModule, CType: cType, CTypeObject: cTypeObject}))
	c.Modules.Get(int(parentModule)).Classes = append(c.Modules.Get(int(parentModule)).Classes, id)
	return id
}

// AddNestedClass creates a class under another class.
func (c *Catalog) AddNestedClass(parent ClassID, name, cType, cTypeObject string) ClassID {
	parentClass := c.Classes.Get(int(parent))
	id := ClassID(c.Classes.add(Class{Name: name, ParentModule: parentClass.ParentModule, ParentClass: parent, CType: cType, CTypeObject: cTypeObject}))
	parentClass.Classes = append(parentClass.Classes, id)
	return id
}

// AddFunction allocates a new Function (without parameters) owned by module
// or (if class != 0) by class, and registers it by fully-qualified name.
func (c *Catalog) AddFunction(module ModuleID, class ClassID, fn Function) (FuncID, error) {
	if _, exists := c.byFQName[fn.FQName]; exists {
		return 0, duplicateFunctionError(fn.FQName)
	}
	fn.Module = module
	fn.Class = class
	id := FuncID(c.Funcs.add(fn))
	c.byFQName[fn.FQName] = id
	if class != 0 {
		cl := c.Classes.Get(int(class))
		cl.Funcs = append(cl.Funcs, id)
	} else {
		m := c.Modules.Get(int(module))
		m.Funcs = append(m.Funcs, id)
	}
	return id, nil
}

// LookupFunction resolves a dotted fully-qualified name, used by the clone
// form ("g = f") to find the donor.
func (c *Catalog) LookupFunction(fqName string) (FuncID, bool) {
	id, ok := c.byFQName[fqName]
	return id, ok
}

// AddParameter appends a parameter to fn's ordered parameter list.
func (c *Catalog) AddParameter(fn FuncID, p Parameter) ParamID {
	id := ParamID(c.Params.add(p))
	f := c.Funcs.Get(int(fn))
	f.Params = append(f.Params, id)
	return id
}

func duplicateFunctionError(fqName string) error {
	return &duplicateError{fqName: fqName}
}

type duplicateError struct{ fqName string }

func (e *duplicateError) Error() string {
	return "function '" + e.fqName + "' already defined"
}
