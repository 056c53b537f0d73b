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

package codegen

import "github.com/clinicgen/clinic/internal/clinic/model"

// Shape is the closed set of calling-convention templates the generator
// may pick (spec §4.6).
type Shape int

const (
	ShapeNoArgs Shape = iota
	ShapeGetter
	ShapeSetter
	ShapeO
	ShapeOFastPath
	ShapeVarargsGroups
	ShapeFastcallPositional
	ShapeGeneralKeywords
	ShapeVarargsKeywordsLimited
	ShapeMethodFastcallKeywordsNoArgs
)

// MethFlags renders the METH_* flag combination emitted verbatim into the
// method-def table (spec §6), including the METH_METHOD| prefix when a
// defining-class parameter is captured.
func MethFlags(shape Shape, hasDefiningClass bool) string {
	method := ""
	if hasDefiningClass {
		method = "METH_METHOD|"
	}
	switch shape {
	case ShapeNoArgs:
		return "METH_NOARGS"
	case ShapeMethodFastcallKeywordsNoArgs:
		return method + "METH_FASTCALL|METH_KEYWORDS"
	case ShapeGetter, ShapeSetter:
		return ""
	case ShapeO, ShapeOFastPath:
		return "METH_O"
	case ShapeVarargsGroups:
		return "METH_VARARGS"
	case ShapeFastcallPositional:
		return method + "METH_FASTCALL"
	case ShapeGeneralKeywords:
		return method + "METH_FASTCALL|METH_KEYWORDS"
	case ShapeVarargsKeywordsLimited:
		return "METH_VARARGS|METH_KEYWORDS"
	default:
		return ""
	}
}

// ClassifyParams describes the shape of one function's non-receiver
// parameter list, as needed by Classify.
type ClassifyParams struct {
	NonReceiver       []*model.Parameter
	HasDefiningClass  bool
	HasOptionalGroups bool
	ReturnsVoidOrSelf bool // true if no return conversion is needed (format-unit "O" fast path)
	LimitedAPI        bool
	IsConstructor     bool // init or new
}

// Classify implements the decision order of spec §4.6.
func Classify(kind model.FunctionKind, p ClassifyParams) Shape {
	n := len(p.NonReceiver)

	if n == 0 {
		switch kind {
		case model.KindGetter:
			return ShapeGetter
		case model.KindSetter:
			return ShapeSetter
		}
		if p.HasDefiningClass {
			return ShapeMethodFastcallKeywordsNoArgs
		}
		return ShapeNoArgs
	}

	if n == 1 && !p.IsConstructor && p.NonReceiver[0].Kind == model.PositionalOnly &&
		p.NonReceiver[0].GroupID == 0 && p.NonReceiver[0].Default.Kind == 0 && !p.HasDefiningClass {
		if p.NonReceiver[0].Converter != nil && p.NonReceiver[0].Converter.FormatUnit() == "O" && p.ReturnsVoidOrSelf {
			return ShapeOFastPath
		}
		return ShapeO
	}

	if p.HasOptionalGroups {
		return ShapeVarargsGroups
	}

	allPositional := true
	for _, prm := range p.NonReceiver {
		if prm.Kind != model.PositionalOnly {
			allPositional = false
			break
		}
	}
	if allPositional && !p.HasDefiningClass {
		return ShapeFastcallPositional
	}
	if allPositional && p.HasDefiningClass {
		if p.LimitedAPI {
			return ShapeVarargsKeywordsLimited
		}
		return ShapeFastcallPositional
	}

	if p.LimitedAPI && limitedAPIForbidsFastcallKeywords(p) {
		return ShapeVarargsKeywordsLimited
	}
	return ShapeGeneralKeywords
}

// limitedAPIForbidsFastcallKeywords models Testable Property 6: under the
// limited API, a defining-class capture cannot ride along with
// METH_FASTCALL|METH_KEYWORDS (the core-only _PyArg_Parser fast path), so
// the generator downgrades to PyArg_ParseTupleAndKeywords.
func limitedAPIForbidsFastcallKeywords(p ClassifyParams) bool {
	return p.HasDefiningClass
}
