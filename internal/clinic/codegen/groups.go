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

import "sort"

// Group is one optional run of positional-only parameters, holding
// whichever per-parameter payload T the caller needs (a name, a
// model.ParamID, ...).
type Group[T any] []T

// Arity is one legal argument-count permutation: the concatenated
// parameters of every group included at that arity, in left-to-right
// declaration order.
type Arity[T any] struct {
	// LeftCount/RightCount record how many of the left/right groups (from
	// closest-to-required outward) are included, purely for diagnostics.
	LeftCount, RightCount int
	Params                []T
}

// EnumerateArities implements §4.6.1's optional-group permutation: given
// left groups ordered farthest-from-required first (so the last element is
// closest to required), a required run, and right groups ordered
// closest-to-required first, it returns every legal argument-count tuple in
// ascending arity, preferring the combination that took more from the left
// when two combinations tie in length (Testable Property 4).
func EnumerateArities[T any](left []Group[T], required Group[T], right []Group[T]) []Arity[T] {
	k, m := len(left), len(right)

	type combo struct{ li, ri int }
	combos := make([]combo, 0, (k+1)*(m+1))
	for li := 0; li <= k; li++ {
		for ri := 0; ri <= m; ri++ {
			combos = append(combos, combo{li, ri})
		}
	}
	sort.SliceStable(combos, func(i, j int) bool {
		ti, tj := combos[i].li+combos[i].ri, combos[j].li+combos[j].ri
		if ti != tj {
			return ti < tj
		}
		return combos[i].li > combos[j].li
	})

	arities := make([]Arity[T], 0, len(combos))
	for _, c := range combos {
		var params []T
		// The last c.li elements of left are the groups closest to the
		// required run; appending them in original (ascending) index
		// order keeps left-to-right declaration order intact.
		for i := k - c.li; i < k; i++ {
			params = append(params, left[i]...)
		}
		params = append(params, required...)
		for i := 0; i < c.ri; i++ {
			params = append(params, right[i]...)
		}
		arities = append(arities, Arity[T]{LeftCount: c.li, RightCount: c.ri, Params: params})
	}
	return arities
}
