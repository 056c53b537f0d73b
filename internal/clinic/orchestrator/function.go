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

package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/model"
)

// applyDecorator handles one "@decorator" line preceding a function's name
// line (spec §6 "Decorators").
func (p *dslParser) applyDecorator(line string) error {
	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], "@")
	switch name {
	case "classmethod":
		p.pendingKind = model.KindClassMethod
	case "staticmethod":
		p.pendingKind = model.KindStaticMethod
	case "coexist":
		p.pendingCoexist = true
	case "getter":
		p.pendingKind = model.KindGetter
	case "setter":
		p.pendingKind = model.KindSetter
	case "text_signature":
		if len(fields) < 2 {
			return fmt.Errorf("@text_signature requires a quoted override")
		}
		v, err := strconv.Unquote(strings.Join(fields[1:], " "))
		if err != nil {
			return fmt.Errorf("@text_signature: %w", err)
		}
		p.pendingTextSig = v
	case "critical_section":
		p.pendingCriticalSection = true
		if len(fields) >= 2 {
			p.pendingLockNames[0] = fields[1]
		}
		if len(fields) >= 3 {
			p.pendingLockNames[1] = fields[2]
		}
	default:
		return fmt.Errorf("unknown decorator %q", name)
	}
	return nil
}

// parseModuleNameLine implements MODULENAME_NAME: either
// "fqname [as c_basename] [-> return_annotation]" or the clone form
// "fqname [as c_basename] = existing_fqname" (spec §4.3).
func (p *dslParser) parseModuleNameLine(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return fmt.Errorf("expected a function name")
	}
	fqname := tokens[0]
	rest := tokens[1:]

	cbasename := ""
	if len(rest) >= 2 && rest[0] == "as" {
		cbasename = rest[1]
		rest = rest[2:]
	}

	module, class, err := p.resolveOwner(fqname)
	if err != nil {
		return err
	}
	display := fqname
	if idx := strings.LastIndexByte(fqname, '.'); idx >= 0 {
		display = fqname[idx+1:]
	}

	switch {
	case len(rest) >= 1 && rest[0] == "=":
		donorName := strings.Join(rest[1:], " ")
		return p.cloneFunction(module, class, fqname, display, cbasename, donorName)

	case len(rest) >= 2 && rest[0] == "->":
		retann := strings.Join(rest[1:], " ")
		return p.createFunction(module, class, fqname, display, cbasename, retann)

	case len(rest) == 0:
		return p.createFunction(module, class, fqname, display, cbasename, "")

	default:
		return fmt.Errorf("malformed function declaration %q", line)
	}
}

// resolveOwner finds the class or module a dotted fqname's prefix names.
// Owners are matched by exact dotted Name against declarations already
// made via `module`/`class` directives in this file; an unrecognized
// prefix falls back to the file's root module, matching a plain top-level
// function declaration.
func (p *dslParser) resolveOwner(fqname string) (model.ModuleID, model.ClassID, error) {
	idx := strings.LastIndexByte(fqname, '.')
	if idx < 0 {
		return model.RootModule, 0, nil
	}
	owner := fqname[:idx]
	cat := p.orch.Catalog
	for id, cls := range cat.Classes.All() {
		if cls.Name == owner {
			return cls.ParentModule, model.ClassID(id), nil
		}
	}
	for id, mod := range cat.Modules.All() {
		if mod.Name == owner {
			return model.ModuleID(id), 0, nil
		}
	}
	return model.RootModule, 0, nil
}

func (p *dslParser) selfCType(class model.ClassID) string {
	if class == 0 {
		return "PyObject *"
	}
	return p.orch.Catalog.Classes.Get(int(class)).CType + " *"
}

func (p *dslParser) createFunction(module model.ModuleID, class model.ClassID, fqname, display, cbasename, returnAnnotation string) error {
	rc, err := p.orch.Registry.LookupReturn(returnAnnotation)
	if err != nil {
		return err
	}
	fn := model.Function{
		FQName:                fqname,
		DisplayName:           display,
		CBaseName:             cbasename,
		ReturnConverter:       rc,
		Kind:                  p.pendingKind,
		Coexist:               p.pendingCoexist,
		CriticalSection:       p.pendingCriticalSection,
		LockNames:             p.pendingLockNames,
		TextSignatureOverride: p.pendingTextSig,
	}
	fid, err := p.orch.Catalog.AddFunction(module, class, fn)
	if err != nil {
		return err
	}
	p.fid = fid

	self := converter.NewSelfConverter(p.selfCType(class))
	p.orch.Catalog.AddParameter(fid, model.Parameter{
		Name:      "self",
		CName:     "self",
		Kind:      model.PositionalOnly,
		Converter: self,
	})
	return nil
}

// cloneFunction implements the "g = f" clone form: copies the donor's
// parameters and return converter wholesale; only docstring, kind, and
// coexist may diverge, and only when the donor's kind is a constructor
// (spec §4.3).
func (p *dslParser) cloneFunction(module model.ModuleID, class model.ClassID, fqname, display, cbasename, donorName string) error {
	donorID, ok := p.orch.Catalog.LookupFunction(donorName)
	if !ok {
		return fmt.Errorf("clone: unknown donor function %q", donorName)
	}
	donor := p.orch.Catalog.Funcs.Get(int(donorID))

	if (p.pendingKind != donor.Kind || p.pendingCoexist != donor.Coexist) &&
		donor.Kind != model.KindConstructorInit && donor.Kind != model.KindConstructorNew {
		return fmt.Errorf("clone: kind/coexist may only diverge when cloning a constructor")
	}

	fn := model.Function{
		FQName:          fqname,
		DisplayName:     display,
		CBaseName:       cbasename,
		ReturnConverter: donor.ReturnConverter,
		Kind:            p.pendingKind,
		Coexist:         p.pendingCoexist,
	}
	fid, err := p.orch.Catalog.AddFunction(module, class, fn)
	if err != nil {
		return err
	}
	p.fid = fid
	for _, pid := range donor.Params {
		src := *p.orch.Catalog.Params.Get(int(pid))
		p.orch.Catalog.AddParameter(fid, src)
	}
	return nil
}
