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

package destination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicgen/clinic/internal/clinic/template"
)

func TestBufferSeriesNegativeIndexGrows(t *testing.T) {
	s := NewBufferSeries()
	s.Append(0, "zero")
	s.Append(-1, "minus-one")
	s.Append(1, "one")
	assert.Equal(t, "minus-onezeroone", s.Render())
	assert.False(t, s.Empty())
}

func TestBufferSeriesClear(t *testing.T) {
	s := NewBufferSeries()
	s.Append(0, "x")
	s.Clear()
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.Render())
}

func TestResolveFilename(t *testing.T) {
	d := New("file", KindFile, "{dirname}/clinic/{basename_root}.h")
	got, err := d.ResolveFilename("/src/pkg/module.c")
	require.NoError(t, err)
	assert.Equal(t, "/src/pkg/clinic/module.h", got)
}

func TestRouterDefaultPresetRoutesEverythingToBlock(t *testing.T) {
	r := NewRouter()
	dest, err := r.Route(template.FragParserDefinition)
	require.NoError(t, err)
	assert.Equal(t, DestBlock, dest.Name)
}

func TestRouterApplyPresetBuffer(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.ApplyPreset("buffer"))
	dest, err := r.Route(template.FragMethoddefDefine)
	require.NoError(t, err)
	assert.Equal(t, DestBuffer, dest.Name)
}

func TestRouterPushPopRestoresRouting(t *testing.T) {
	r := NewRouter()
	r.Push()
	require.NoError(t, r.SetFragment(template.FragImplDefinition, DestSuppress))
	dest, _ := r.Route(template.FragImplDefinition)
	assert.Equal(t, DestSuppress, dest.Name)

	require.NoError(t, r.Pop())
	dest, _ = r.Route(template.FragImplDefinition)
	assert.Equal(t, DestBlock, dest.Name)
}

func TestRouterSetEverything(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.SetEverything(DestSuppress))
	for _, f := range template.AllFragments {
		dest, err := r.Route(f)
		require.NoError(t, err)
		assert.Equal(t, DestSuppress, dest.Name)
	}
}

func TestRouterWriteFragmentsAndDump(t *testing.T) {
	r := NewRouter()
	err := r.WriteFragments(map[template.FragmentName]string{
		template.FragParserDefinition: "int x;\n",
		template.FragImplPrototype:    "",
	})
	require.NoError(t, err)

	text, err := r.Dump(DestBlock)
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", text)

	text, err = r.Dump(DestBlock)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestAddDestinationDuplicateErrors(t *testing.T) {
	r := NewRouter()
	err := r.AddDestination(DestBlock, KindBuffer, "")
	assert.Error(t, err)
}
