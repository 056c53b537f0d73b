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

package dslexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateDefaultLiterals(t *testing.T) {
	testCases := []struct {
		name      string
		expr      Expr
		override  string
		wantKind  DefaultKind
		wantCSurf string
		wantErr   bool
	}{
		{name: "null", expr: NullIdent{}, wantKind: DefaultNull, wantCSurf: "NULL"},
		{name: "none", expr: None{}, wantKind: DefaultLiteral, wantCSurf: "Py_None"},
		{name: "true", expr: Bool{Value: true}, wantKind: DefaultLiteral, wantCSurf: "1"},
		{name: "int", expr: Int{Value: 42}, wantKind: DefaultLiteral, wantCSurf: "42"},
		{name: "string", expr: String{Value: "hi"}, wantKind: DefaultLiteral, wantCSurf: `"hi"`},
		{name: "attribute without override", expr: Attribute{Base: Ident("sys"), Name: "maxsize"}, wantErr: true},
		{name: "attribute with override", expr: Attribute{Base: Ident("sys"), Name: "maxsize"}, override: "PY_SSIZE_T_MAX", wantKind: DefaultUnknown, wantCSurf: "PY_SSIZE_T_MAX"},
		{name: "call without override", expr: Call{Callee: Ident("compute")}, wantErr: true},
		{name: "call with override", expr: Call{Callee: Ident("compute")}, override: "COMPUTED", wantKind: DefaultUnknown, wantCSurf: "COMPUTED"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EvaluateDefault(tc.expr, tc.override)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, got.Kind)
			assert.Equal(t, tc.wantCSurf, got.CSurface)
		})
	}
}
