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

// Package bind is the native function ABI binder a host uses to expose a Go
// function as a lip value (spec §6): argument count and type checking done
// once, in one place, instead of repeated by hand in every builtin.
package bind

import (
	"fmt"

	"github.com/bullno1/lip-sub000/value"
)

// Type is the closed set of argument shapes a binder can check for.
type Type int

const (
	Any Type = iota
	Number
	String
	List
	Function
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Function:
		return "function"
	default:
		return "any"
	}
}

func (t Type) matches(v value.Value) bool {
	switch t {
	case Number:
		return v.Kind == value.Number
	case String:
		return v.Kind == value.String
	case List:
		return v.Kind == value.List
	case Function:
		return v.Kind == value.Function
	default:
		return true
	}
}

// Arg describes one formal parameter: its name (for error messages), its
// required Type, and whether it may be omitted, in which case Default is
// used.
type Arg struct {
	Name     string
	Type     Type
	Optional bool
	Default  value.Value
}

// Fn is the body a binder wraps: args has already been checked against the
// Arg specs and padded out to len(specs) with defaults.
type Fn func(args []value.Value) (value.Value, error)

// Wrap builds a value.NativeFunc that checks arity and argument types
// against specs before calling fn, the same contract bind.h's
// lip_bind_args macro enforces at the call site in C.
func Wrap(name string, specs []Arg, fn Fn) value.NativeFunc {
	min := 0
	for _, s := range specs {
		if !s.Optional {
			min++
		}
	}
	max := len(specs)

	return func(ctx value.NativeContext) (value.Value, error) {
		args := ctx.Args()
		if len(args) < min || len(args) > max {
			if min == max {
				return value.NilValue, fmt.Errorf("%s: expected exactly %d arguments, got %d", name, min, len(args))
			}
			return value.NilValue, fmt.Errorf("%s: expected %d to %d arguments, got %d", name, min, max, len(args))
		}

		filled := make([]value.Value, len(specs))
		for i, spec := range specs {
			if i < len(args) {
				if !spec.Type.matches(args[i]) {
					return value.NilValue, fmt.Errorf("%s: argument #%d (%s) expected %s, got %s", name, i+1, spec.Name, spec.Type, args[i].Kind)
				}
				filled[i] = args[i]
			} else {
				filled[i] = spec.Default
			}
		}
		return fn(filled)
	}
}

// Variadic builds a value.NativeFunc that checks only that at least min
// arguments were given, passing every argument through unchecked; used for
// the inlineable arithmetic/comparison primitives re-exposed as values and
// for genuinely variadic builtins like /list.
func Variadic(name string, min int, fn Fn) value.NativeFunc {
	return func(ctx value.NativeContext) (value.Value, error) {
		args := ctx.Args()
		if len(args) < min {
			return value.NilValue, fmt.Errorf("%s: expected at least %d arguments, got %d", name, min, len(args))
		}
		return fn(args)
	}
}
