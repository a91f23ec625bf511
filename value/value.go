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

// Package value defines the runtime Value tagged union (spec §3) shared by
// the compiler's constant pool, the VM's stacks, and the host binding ABI.
package value

import "fmt"

// Kind tags the variant of a Value.
type Kind uint8

const (
	Nil Kind = iota
	Boolean
	Number
	String
	Symbol
	List
	Function
	Placeholder
	Native
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case List:
		return "list"
	case Function:
		return "function"
	case Placeholder:
		return "placeholder"
	case Native:
		return "native"
	default:
		return "unknown"
	}
}

// Value is a tagged union. Only the field matching Kind is meaningful.
// String and Symbol share representation (Str) but compare by Kind first,
// so they are never equal to one another.
type Value struct {
	Kind Kind

	Num  float64
	Bool bool
	Str  string
	L    *List
	Fn   *Closure
	PlhI uint32 // Placeholder index
	Ntv  interface{}
}

// NilValue is the singleton nil value.
var NilValue = Value{Kind: Nil}

func NewBoolean(b bool) Value  { return Value{Kind: Boolean, Bool: b} }
func NewNumber(n float64) Value { return Value{Kind: Number, Num: n} }
func NewString(s string) Value  { return Value{Kind: String, Str: s} }
func NewSymbol(s string) Value  { return Value{Kind: Symbol, Str: s} }
func NewList(l *List) Value     { return Value{Kind: List, L: l} }
func NewFunction(c *Closure) Value { return Value{Kind: Function, Fn: c} }
func NewPlaceholder(i uint32) Value { return Value{Kind: Placeholder, PlhI: i} }
func NewNative(v interface{}) Value { return Value{Kind: Native, Ntv: v} }

// IsTruthy implements the language's only falsy values: Nil and the
// Boolean false.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case Nil:
		return false
	case Boolean:
		return v.Bool
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case Nil:
		return "nil"
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return fmt.Sprintf("%g", v.Num)
	case String:
		return fmt.Sprintf("%q", v.Str)
	case Symbol:
		return v.Str
	case List:
		return v.L.String()
	case Function:
		return v.Fn.String()
	case Placeholder:
		return fmt.Sprintf("#<placeholder %d>", v.PlhI)
	case Native:
		return fmt.Sprintf("#<native %v>", v.Ntv)
	default:
		return "#<invalid>"
	}
}

// Compare implements the generic total ordering of spec §4.9.1. Ordering
// between distinct Kinds compares the Kind discriminants; it is total but
// not meaningful across tags.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	switch a.Kind {
	case Nil:
		return 0
	case Number:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	case Boolean:
		return boolToInt(a.Bool) - boolToInt(b.Bool)
	case String, Symbol:
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	case Placeholder:
		return int(a.PlhI) - int(b.PlhI)
	case List:
		return pointerCompare(a.L, b.L)
	case Function:
		return pointerCompare(a.Fn, b.Fn)
	case Native:
		return pointerCompare(a.Ntv, b.Ntv)
	default:
		return 0
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func pointerCompare(a, b interface{}) int {
	pa := fmt.Sprintf("%p", a)
	pb := fmt.Sprintf("%p", b)
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	default:
		return 0
	}
}

// Equal is value equality: == for scalars, pointer identity for
// lists/functions/native handles, per spec §4.9.1.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
