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

package indent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasure(t *testing.T) {
	testCases := []struct {
		line          string
		expectedWidth int
		expectedErr   error
	}{
		{line: "foo", expectedWidth: 0},
		{line: "    foo", expectedWidth: 4},
		{line: "\tfoo", expectedErr: ErrTab},
		{line: "  \tfoo", expectedErr: ErrTab},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			width, err := Measure(tc.line)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedWidth, width)
		})
	}
}

func TestStackInfer(t *testing.T) {
	s := New()
	push, err := s.Infer("    a")
	require.NoError(t, err)
	assert.Equal(t, 1, push)

	same, err := s.Infer("    b")
	require.NoError(t, err)
	assert.Equal(t, 0, same)

	deeper, err := s.Infer("        c")
	require.NoError(t, err)
	assert.Equal(t, 1, deeper)

	pop, err := s.Infer("    d")
	require.NoError(t, err)
	assert.Equal(t, -1, pop)

	_, err = s.Infer("  e")
	assert.Error(t, err)
}

func TestDedent(t *testing.T) {
	s := New()
	_, err := s.Infer("    a")
	require.NoError(t, err)
	assert.Equal(t, "rest of line", s.Dedent("    rest of line"))
}
