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
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/clinicgen/clinic/internal/clinic/clinicerr"
	"github.com/clinicgen/clinic/internal/clinic/collections"
	"github.com/clinicgen/clinic/internal/clinic/converter"
)

// py_limited_api detection: a bare, uncommented "#define Py_LIMITED_API"
// line. The directive needs no value check (spec §6): its mere presence
// downgrades every function in the file to the limited-API code path.
var limitedAPIDefineRe = regexp.MustCompile(`(?m)^\s*#\s*define\s+Py_LIMITED_API\b`)

// WalkResult reports one file's outcome from a --make tree walk.
type WalkResult struct {
	Path    string
	Changed bool
	Err     error
}

// WalkOptions configures a --make directory walk (spec §6's --make/--srcdir/
// --exclude flags).
type WalkOptions struct {
	SrcDir       string
	ExcludeGlobs []string
	Registry     *converter.Registry
	ForceLimited bool // --limited on the command line always wins
}

// Walk finds every candidate host source file under opts.SrcDir, skips ones
// matching an exclude glob, and runs ProcessFile on the rest concurrently
// (grounded on the teacher's errgroup-based parallel-file pattern). Each
// file's Py_LIMITED_API status is detected independently by scanning its own
// text, since two files under the same tree may disagree. The second return
// value is every path the walk skipped because it matched an ExcludeGlobs
// pattern, deduplicated and sorted, for --verbose reporting at the call site.
func Walk(opts WalkOptions) ([]WalkResult, []string, error) {
	var files []string
	excluded := collections.Set[string]{}

	err := filepath.WalkDir(opts.SrcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isCandidateSource(path) {
			return nil
		}
		rel, relErr := filepath.Rel(opts.SrcDir, path)
		if relErr != nil {
			rel = path
		}
		for _, pattern := range opts.ExcludeGlobs {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				excluded.Add(path)
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, clinicerr.Wrap(err, "walking %s", opts.SrcDir)
	}
	sort.Strings(files)
	excludedPaths := excluded.SortedValues(func(l, r string) int {
		switch {
		case l < r:
			return -1
		case l > r:
			return 1
		default:
			return 0
		}
	})

	results := make([]WalkResult, len(files))
	var mu sync.Mutex
	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			limited := opts.ForceLimited || fileDeclaresLimitedAPI(path)
			text, changed, perr := ProcessFile(path, opts.Registry, limited)
			if perr == nil && changed {
				_, perr = WriteIfChanged(path, text)
			}
			mu.Lock()
			results[i] = WalkResult{Path: path, Changed: changed && perr == nil, Err: perr}
			mu.Unlock()
			return nil // collect per-file errors in results, don't abort the group
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, excludedPaths, nil
}

// isCandidateSource reports whether path looks like a C/C++ host file
// Argument Clinic would ever scan.
func isCandidateSource(path string) bool {
	switch filepath.Ext(path) {
	case ".c", ".h", ".cc", ".cpp", ".cxx", ".hpp":
		return true
	default:
		return false
	}
}

// fileDeclaresLimitedAPI scans a file's raw text for an unconditional
// "#define Py_LIMITED_API" line. This is a textual check, not a full
// preprocessor evaluation (a Py_LIMITED_API guarded behind an #if that
// never takes effect is still treated as present) — acceptable because the
// reference tool applies the same simplification.
func fileDeclaresLimitedAPI(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return limitedAPIDefineRe.Match(data)
}

// SummarizeWalk renders a one-line-per-file report, erroring out (spec §5)
// if any file failed.
func SummarizeWalk(results []WalkResult) (string, error) {
	var out string
	var firstErr error
	for _, r := range results {
		switch {
		case r.Err != nil:
			out += fmt.Sprintf("%s: error: %v\n", r.Path, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
		case r.Changed:
			out += fmt.Sprintf("%s: updated\n", r.Path)
		default:
			out += fmt.Sprintf("%s: unchanged\n", r.Path)
		}
	}
	return out, firstErr
}
