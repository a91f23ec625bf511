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

package sexp

import (
	"strconv"
	"strings"
)

// String renders s with canonical whitespace (single spaces, no comments).
// Reparsing the result yields a structurally identical tree, modulo
// locations (spec §8 invariant 2).
func (s Sexp) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Sexp) write(b *strings.Builder) {
	switch s.Kind {
	case Number:
		b.WriteString(strconv.FormatFloat(s.Num, 'g', -1, 64))
	case String:
		b.WriteByte('"')
		b.WriteString(s.Str)
		b.WriteByte('"')
	case Symbol:
		b.WriteString(s.Str)
	case List:
		b.WriteByte('(')
		for i, e := range s.Elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			e.write(b)
		}
		b.WriteByte(')')
	}
}

// Equal reports structural equality, ignoring source locations.
func Equal(a, b Sexp) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Number:
		return a.Num == b.Num
	case String, Symbol:
		return a.Str == b.Str
	case List:
		if len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}
