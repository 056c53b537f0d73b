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

// Package model holds Argument Clinic's typed function model: modules,
// classes, functions, and parameters. Per the "cyclic ownership" design
// note, each category lives in its own arena and is addressed by an integer
// handle; back-references (function -> owning class/module, parameter ->
// owning function) are handles, never pointers, so the structures stay
// flat and trivially copyable.
package model

// Arena is an append-only store of T addressed by a 1-based handle; handle 0
// is reserved to mean "absent" for optional back-references.
type Arena[T any] struct {
	items []T
}

func (a *Arena[T]) add(item T) int {
	a.items = append(a.items, item)
	return len(a.items) // 1-based
}

// Get returns a pointer to the item for handle id, so callers can mutate it
// in place (e.g. appending a child's handle to a parent's list).
func (a *Arena[T]) Get(id int) *T {
	return &a.items[id-1]
}

// Len returns the number of items ever allocated in the arena.
func (a *Arena[T]) Len() int { return len(a.items) }

// All iterates every allocated handle in allocation order.
func (a *Arena[T]) All() func(yield func(int, *T) bool) {
	return func(yield func(int, *T) bool) {
		for i := range a.items {
			if !yield(i+1, &a.items[i]) {
				return
			}
		}
	}
}
