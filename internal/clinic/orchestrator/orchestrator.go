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

// Package orchestrator is the top-level object owning one file's modules,
// classes, function catalog, include set, and destination routing (spec
// §3's Orchestrator, grounded on the teacher's config-object-with-maps
// style in language/cc/resolve.go's ccConfig).
package orchestrator

import (
	"github.com/clinicgen/clinic/internal/clinic/block"
	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/destination"
	"github.com/clinicgen/clinic/internal/clinic/model"
)

// Orchestrator owns every piece of state that spans the directive blocks of
// one host file: the catalog of modules/classes/functions, the include set,
// the destination router, the ifndef-guard set, and the limited-API flag.
type Orchestrator struct {
	Filename   string
	Catalog    *model.Catalog
	Router     *destination.Router
	Registry   *converter.Registry
	LimitedAPI bool

	LinePrefix string
	LineSuffix string

	includes      []block.Include
	includeByName map[string]int // index into includes, for the merge rule
	ifndefGuards  map[string]bool

	processedFuncs int // high-water mark into Catalog.Funcs already generated
}

// New creates an Orchestrator for one file's processing. filename names the
// host C file being rewritten; rootModuleName seeds the catalog's implicit
// root module (conventionally the module the file itself belongs to).
func New(filename, rootModuleName string, reg *converter.Registry, limitedAPI bool) *Orchestrator {
	return &Orchestrator{
		Filename:      filename,
		Catalog:       model.NewCatalog(rootModuleName),
		Router:        destination.NewRouter(),
		Registry:      reg,
		LimitedAPI:    limitedAPI,
		includeByName: map[string]int{},
		ifndefGuards:  map[string]bool{},
	}
}

// AddInclude implements add_include(name, reason, condition=null) with the
// spec §3 merge rule: if name already exists unconditionally, keep it; if
// the new request is unconditional and the old one was conditional, upgrade
// to unconditional; otherwise keep the first recorded reason.
func (o *Orchestrator) AddInclude(name, reason, condition string) {
	if i, ok := o.includeByName[name]; ok {
		existing := &o.includes[i]
		if existing.Condition == "" {
			return // already unconditional; nothing to upgrade
		}
		if condition == "" {
			existing.Condition = ""
			existing.Reason = reason
		}
		return
	}
	o.includeByName[name] = len(o.includes)
	o.includes = append(o.includes, block.Include{Name: name, Reason: reason, Condition: condition})
}

// Includes returns every include requested so far, in request order (the
// block printer sorts them before emission).
func (o *Orchestrator) Includes() []block.Include {
	return o.includes
}

// GuardOnce reports whether name has already claimed its ifndef guard,
// claiming it as a side effect the first time — used so a method-def
// #ifndef guard is emitted only once per name (spec §3).
func (o *Orchestrator) GuardOnce(name string) bool {
	if o.ifndefGuards[name] {
		return false
	}
	o.ifndefGuards[name] = true
	return true
}
