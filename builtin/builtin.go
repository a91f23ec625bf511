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

// Package builtin supplies the native functions every lip program can
// reach without an explicit Load: the arithmetic/comparison primitives of
// opcode.Primitive re-exposed as first-class values (the assembler only
// inlines a direct call to one of these names; passing "+" itself to
// another function still needs it to resolve to something), plus the
// /list and list/concat primitives the quote/quasiquote expansion of
// spec §4.4 compiles down to.
package builtin

import (
	"fmt"

	"github.com/bullno1/lip-sub000/bind"
	"github.com/bullno1/lip-sub000/value"
)

// All returns every builtin as a mapping from the name a program uses to
// its value.Value; runtime.NewRuntime commits each entry under the
// namespace that name selects ("list/concat" under "list").
func All() map[string]value.Value {
	m := map[string]value.Value{
		"+":   nativeFn("+", addFn),
		"-":   nativeFn("-", subFn),
		"*":   nativeFn("*", mulFn),
		"/":   nativeFn("/", divFn),
		"!":   nativeFn("!", notFn),
		"cmp": nativeFn("cmp", cmpFn),
		"==":  nativeFn("==", eqFn),
		"!=":  nativeFn("!=", neqFn),
		"<":   nativeFn("<", ltFn),
		">":   nativeFn(">", gtFn),
		"<=":  nativeFn("<=", lteFn),
		">=":  nativeFn(">=", gteFn),

		"/list":       nativeFn("/list", listFn),
		"list/concat": nativeFn("list/concat", listConcatFn),
	}
	return m
}

func nativeFn(name string, fn value.NativeFunc) value.Value {
	return value.NewFunction(value.NewNativeClosure(fn, nil, name))
}

func numbers(name string, args []value.Value) ([]float64, error) {
	out := make([]float64, len(args))
	for i, v := range args {
		if v.Kind != value.Number {
			return nil, fmt.Errorf("%s: argument #%d expected number, got %s", name, i+1, v.Kind)
		}
		out[i] = v.Num
	}
	return out, nil
}

var addFn = bind.Variadic("+", 0, func(args []value.Value) (value.Value, error) {
	nums, err := numbers("+", args)
	if err != nil {
		return value.NilValue, err
	}
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return value.NewNumber(sum), nil
})

var subFn = bind.Variadic("-", 1, func(args []value.Value) (value.Value, error) {
	nums, err := numbers("-", args)
	if err != nil {
		return value.NilValue, err
	}
	if len(nums) == 1 {
		return value.NewNumber(-nums[0]), nil
	}
	result := nums[0]
	for _, n := range nums[1:] {
		result -= n
	}
	return value.NewNumber(result), nil
})

var mulFn = bind.Variadic("*", 0, func(args []value.Value) (value.Value, error) {
	nums, err := numbers("*", args)
	if err != nil {
		return value.NilValue, err
	}
	result := 1.0
	for _, n := range nums {
		result *= n
	}
	return value.NewNumber(result), nil
})

var divFn = bind.Variadic("/", 1, func(args []value.Value) (value.Value, error) {
	nums, err := numbers("/", args)
	if err != nil {
		return value.NilValue, err
	}
	if len(nums) == 1 {
		return value.NewNumber(1 / nums[0]), nil
	}
	result := nums[0]
	for _, n := range nums[1:] {
		result /= n
	}
	return value.NewNumber(result), nil
})

var notFn = bind.Wrap("!", []bind.Arg{{Name: "x", Type: bind.Any}}, func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(!args[0].IsTruthy()), nil
})

var cmpFn = bind.Wrap("cmp", []bind.Arg{{Name: "a", Type: bind.Any}, {Name: "b", Type: bind.Any}}, func(args []value.Value) (value.Value, error) {
	return value.NewNumber(float64(value.Compare(args[0], args[1]))), nil
})

func compareSpecs() []bind.Arg {
	return []bind.Arg{{Name: "a", Type: bind.Any}, {Name: "b", Type: bind.Any}}
}

var eqFn = bind.Wrap("==", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) == 0), nil
})

var neqFn = bind.Wrap("!=", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) != 0), nil
})

var ltFn = bind.Wrap("<", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) < 0), nil
})

var gtFn = bind.Wrap(">", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) > 0), nil
})

var lteFn = bind.Wrap("<=", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) <= 0), nil
})

var gteFn = bind.Wrap(">=", compareSpecs(), func(args []value.Value) (value.Value, error) {
	return value.NewBoolean(value.Compare(args[0], args[1]) >= 0), nil
})

var listFn = bind.Variadic("/list", 0, func(args []value.Value) (value.Value, error) {
	elems := append([]value.Value(nil), args...)
	return value.NewList(value.NewListOf(elems)), nil
})

var listConcatFn = bind.Variadic("list/concat", 0, func(args []value.Value) (value.Value, error) {
	lists := make([]*value.List, len(args))
	for i, v := range args {
		if v.Kind != value.List {
			return value.NilValue, fmt.Errorf("list/concat: argument #%d expected list, got %s", i+1, v.Kind)
		}
		lists[i] = v.L
	}
	return value.NewList(value.Concat(lists...)), nil
})
