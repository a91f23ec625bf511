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

package builtin_test

import (
	"testing"

	"github.com/bullno1/lip-sub000/builtin"
	"github.com/bullno1/lip-sub000/value"
)

type fakeCtx struct{ args []value.Value }

func (c fakeCtx) Args() []value.Value { return c.args }
func (c fakeCtx) Env() []value.Value  { return nil }

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := builtin.All()[name]
	if !ok {
		t.Fatalf("no such builtin %q", name)
	}
	v, err := fn.Fn.NativeFn(fakeCtx{args: args})
	if err != nil {
		t.Fatalf("%s%v: %v", name, args, err)
	}
	return v
}

func TestArithmeticBuiltinsAsValues(t *testing.T) {
	if v := call(t, "+", value.NewNumber(1), value.NewNumber(2)); v.Num != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
	if v := call(t, "-", value.NewNumber(5)); v.Num != -5 {
		t.Fatalf("expected -5, got %v", v)
	}
	if v := call(t, "*", value.NewNumber(2), value.NewNumber(3), value.NewNumber(4)); v.Num != 24 {
		t.Fatalf("expected 24, got %v", v)
	}
	if v := call(t, "/", value.NewNumber(2)); v.Num != 0.5 {
		t.Fatalf("expected 0.5, got %v", v)
	}
}

func TestComparisonBuiltins(t *testing.T) {
	if v := call(t, "<", value.NewNumber(1), value.NewNumber(2)); !v.Bool {
		t.Fatalf("expected true")
	}
	if v := call(t, "==", value.NewNumber(1), value.NewNumber(2)); v.Bool {
		t.Fatalf("expected false")
	}
	if v := call(t, "!", value.NewBoolean(false)); !v.Bool {
		t.Fatalf("expected true")
	}
}

func TestListBuiltin(t *testing.T) {
	v := call(t, "/list", value.NewNumber(1), value.NewNumber(2))
	if v.Kind != value.List || v.L.Len() != 2 {
		t.Fatalf("expected a 2-element list, got %v", v)
	}
}

func TestListConcatBuiltin(t *testing.T) {
	a := call(t, "/list", value.NewNumber(1))
	b := call(t, "/list", value.NewNumber(2), value.NewNumber(3))
	v := call(t, "list/concat", a, b)
	if v.Kind != value.List || v.L.Len() != 3 {
		t.Fatalf("expected a 3-element list, got %v", v)
	}
	if v.L.At(0).Num != 1 || v.L.At(1).Num != 2 || v.L.At(2).Num != 3 {
		t.Fatalf("expected (1 2 3), got %v", v)
	}
}
