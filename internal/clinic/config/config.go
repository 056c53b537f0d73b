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

// Package config loads the optional project-level .clinic.yaml file: a
// handful of defaults the CLI otherwise takes as flags, so a repository can
// commit them once instead of repeating them on every invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the decoded shape of a .clinic.yaml file.
type Project struct {
	// ConverterPaths is decoded from converter_paths; no part of the
	// toolchain reads it, and only the built-in converter registry is used.
	ConverterPaths []string `yaml:"converter_paths"`
	// Limited sets the default --limited value when the flag is not passed.
	Limited bool `yaml:"limited"`
	// ExcludeGlobs are extra doublestar glob patterns merged with any
	// --exclude flags for the --make directory walker.
	ExcludeGlobs []string `yaml:"exclude"`
}

// Load reads and parses path. A missing file is not an error: it returns a
// zero-value Project, so callers can unconditionally call Load(defaultPath).
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, nil
		}
		return Project{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}

// Merge overlays flag-supplied values on top of the project config:
// whichever --exclude globs were passed on the command line are appended to
// the project's own, and an explicitly-passed --limited always wins.
func (p Project) Merge(cliExcludes []string, cliLimited *bool) (excludes []string, limited bool) {
	excludes = append(append([]string{}, p.ExcludeGlobs...), cliExcludes...)
	limited = p.Limited
	if cliLimited != nil {
		limited = *cliLimited
	}
	return excludes, limited
}
