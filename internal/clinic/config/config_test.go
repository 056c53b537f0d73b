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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Project{}, p)
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("converter_paths:\n  - ./converters\nlimited: true\nexclude:\n  - \"vendor/**\"\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./converters"}, p.ConverterPaths)
	assert.True(t, p.Limited)
	assert.Equal(t, []string{"vendor/**"}, p.ExcludeGlobs)
}

func TestMergePrefersExplicitCLILimited(t *testing.T) {
	p := Project{Limited: true, ExcludeGlobs: []string{"a/**"}}
	cliLimited := false
	excludes, limited := p.Merge([]string{"b/**"}, &cliLimited)
	assert.Equal(t, []string{"a/**", "b/**"}, excludes)
	assert.False(t, limited)
}

func TestMergeFallsBackToProjectLimited(t *testing.T) {
	p := Project{Limited: true}
	excludes, limited := p.Merge(nil, nil)
	assert.Empty(t, excludes)
	assert.True(t, limited)
}
