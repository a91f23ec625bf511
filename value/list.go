// This file is part of lip-sub000 - https://github.com/bullno1/lip-sub000
//
// Copyright 2026 The lip-sub000 Authors
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

package value

import "strings"

// List is {length, elements, root}: elements is a slice view over root's
// backing array. Tail() and slicing keep a reference to root instead of
// copying, so a chain of cdrs shares storage with the list it came from.
type List struct {
	elements []Value
	root     interface{} // keeps the backing array's owner alive; informational only
}

// EmptyList is the canonical zero-length list.
var EmptyList = &List{}

// NewListOf builds a fresh, root-owning List from elems. elems is taken by
// reference, not copied.
func NewListOf(elems []Value) *List {
	l := &List{elements: elems}
	l.root = l
	return l
}

func (l *List) Len() int { return len(l.elements) }

func (l *List) At(i int) Value { return l.elements[i] }

func (l *List) Elements() []Value { return l.elements }

// Tail returns the list starting at index n, sharing l's backing array.
func (l *List) Tail(n int) *List {
	if n >= len(l.elements) {
		return EmptyList
	}
	return &List{elements: l.elements[n:], root: l.rootOwner()}
}

func (l *List) rootOwner() interface{} {
	if l.root != nil {
		return l.root
	}
	return l
}

// Concat builds a new backing array holding every element of lists in
// order; it always copies, since the result must be independently
// sliceable without mutating any input.
func Concat(lists ...*List) *List {
	total := 0
	for _, l := range lists {
		total += l.Len()
	}
	out := make([]Value, 0, total)
	for _, l := range lists {
		out = append(out, l.elements...)
	}
	return NewListOf(out)
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}
