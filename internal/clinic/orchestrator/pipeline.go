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
	"os"
	"path/filepath"
	"strings"

	"github.com/clinicgen/clinic/internal/clinic/block"
	"github.com/clinicgen/clinic/internal/clinic/clinicerr"
	"github.com/clinicgen/clinic/internal/clinic/codegen"
	"github.com/clinicgen/clinic/internal/clinic/converter"
	"github.com/clinicgen/clinic/internal/clinic/model"
)

// dslNames is the one directive name this implementation recognizes inside
// a host source file's "/*[clinic input] ... [clinic start generated code]*/
// .../*[clinic end generated code: ...]*/" marker triple.
var dslNames = []string{"clinic"}

// ProcessFile reads path, rewrites every "clinic" directive block it finds,
// and returns the rewritten text plus whether anything changed (spec §5).
// One Orchestrator (and therefore one function Catalog) is shared across
// every block in the file, matching the reference tool's single-pass,
// whole-file semantics: a class or module declared in an earlier block is
// visible to a clone ("f2 = f1") in a later one.
func ProcessFile(path string, reg *converter.Registry, limitedAPI bool) (string, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false, clinicerr.Wrap(err, "reading %s", path)
	}
	original := string(raw)

	blocks, err := block.Parse(original, dslNames)
	if err != nil {
		return "", false, clinicerr.WithLocation(err, path, 0)
	}

	rootName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	orch := New(path, rootName, reg, limitedAPI)

	var out strings.Builder
	changed := false
	for i := range blocks {
		blk := &blocks[i]
		if blk.DSLName == "" {
			out.WriteString(blk.Input)
			continue
		}

		dumped, preserved, err := ParseBlock(orch, blk.Input)
		if err != nil {
			return "", false, clinicerr.WithLocation(err, path, blk.Line)
		}
		if preserved {
			out.WriteString(block.Print(*blk, orch.LinePrefix, orch.LineSuffix, nil))
			continue
		}

		generated, err := renderGeneratedOutput(orch)
		if err != nil {
			return "", false, clinicerr.WithLocation(err, path, blk.Line)
		}
		generated = strings.Join(dumped, "") + generated

		newBlk := *blk
		newBlk.Output = generated
		rendered := block.Print(newBlk, orch.LinePrefix, orch.LineSuffix, orch.Includes())
		out.WriteString(rendered)

		if newBlk.Output != blk.Output || !blk.HadChecksum {
			changed = true
		}
	}

	return out.String(), changed, nil
}

// renderGeneratedOutput classifies and generates every function the block
// just parsed added to the catalog, routes each fragment through the
// destination router, and returns the "block" destination's accumulated
// text (the portion that replaces the block's Output region in place).
func renderGeneratedOutput(orch *Orchestrator) (string, error) {
	start := orch.processedFuncs + 1
	end := orch.Catalog.Funcs.Len()
	orch.processedFuncs = end
	for id := start; id <= end; id++ {
		fid := model.FuncID(id)
		fn := orch.Catalog.Funcs.Get(id)
		nonSelf := fn.Params[1:]
		params := make([]*model.Parameter, len(nonSelf))
		for i, pid := range nonSelf {
			params[i] = orch.Catalog.Params.Get(int(pid))
		}

		shape := codegen.Classify(fn.Kind, codegen.ClassifyParams{
			NonReceiver:       params,
			HasDefiningClass:  hasDefiningClassParam(params),
			HasOptionalGroups: fn.HasOptionalGroups,
			ReturnsVoidOrSelf: fn.ReturnConverter == nil,
			LimitedAPI:        orch.LimitedAPI,
			IsConstructor:     fn.Kind == model.KindConstructorInit || fn.Kind == model.KindConstructorNew,
		})

		output, err := codegen.Generate(orch.Catalog, fid, shape, orch.LimitedAPI)
		if err != nil {
			return "", err
		}
		for _, inc := range output.Includes {
			orch.AddInclude(inc, "", "")
		}
		if err := orch.Router.WriteFragments(output.Fragments); err != nil {
			return "", err
		}
	}

	blockDest, err := orch.Router.Destination("block")
	if err != nil {
		return "", err
	}
	text := blockDest.Buffers.Render()
	blockDest.Buffers.Clear()
	return text, nil
}

func hasDefiningClassParam(params []*model.Parameter) bool {
	for _, p := range params {
		if _, ok := p.Converter.(converter.DefiningClassConverter); ok {
			return true
		}
	}
	return false
}

// WriteIfChanged writes contents to path only if it differs from the file's
// current contents, via a temp-file-then-rename swap so a reader never
// observes a partially written file (spec §5's "write-if-changed" rule).
func WriteIfChanged(path, contents string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == contents {
		return false, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".clinic-tmp-*")
	if err != nil {
		return false, clinicerr.Wrap(err, "creating temp file for %s", path)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(contents); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return false, clinicerr.Wrap(err, "writing temp file for %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return false, clinicerr.Wrap(err, "closing temp file for %s", path)
	}
	info, err := os.Stat(path)
	if err == nil {
		os.Chmod(tmpPath, info.Mode())
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return false, clinicerr.Wrap(err, "replacing %s", path)
	}
	return true, nil
}
