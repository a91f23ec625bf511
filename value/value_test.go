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

package value_test

import (
	"bytes"
	"testing"

	"github.com/bullno1/lip-sub000/value"
)

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		v    value.Value
		want bool
	}{
		{value.NilValue, false},
		{value.NewBoolean(false), false},
		{value.NewBoolean(true), true},
		{value.NewNumber(0), true},
		{value.NewString(""), true},
	}
	for _, c := range cases {
		if got := c.v.IsTruthy(); got != c.want {
			t.Errorf("%v.IsTruthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestCompareOrdersByKindThenValue(t *testing.T) {
	if value.Compare(value.NewNumber(1), value.NewNumber(2)) >= 0 {
		t.Errorf("expected 1 < 2")
	}
	if value.Compare(value.NewNumber(2), value.NewNumber(2)) != 0 {
		t.Errorf("expected 2 == 2")
	}
	if value.Compare(value.NewString("a"), value.NewString("b")) >= 0 {
		t.Errorf("expected \"a\" < \"b\"")
	}
	if value.Compare(value.NewNumber(1), value.NewString("a")) == 0 {
		t.Errorf("expected distinct kinds to never compare equal")
	}
}

func TestCompareIsConsistentWithItself(t *testing.T) {
	l := value.NewList(value.NewListOf([]value.Value{value.NewNumber(1)}))
	if value.Compare(l, l) != 0 {
		t.Errorf("expected a list to compare equal to itself")
	}
}

func TestListTailSharesBackingArray(t *testing.T) {
	l := value.NewListOf([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)})
	tail := l.Tail(1)
	if tail.Len() != 2 || tail.At(0).Num != 2 || tail.At(1).Num != 3 {
		t.Fatalf("expected (2 3), got %v", tail)
	}
	if l.Tail(10).Len() != 0 {
		t.Fatalf("expected an out-of-range tail to be empty")
	}
}

func TestListConcatCopies(t *testing.T) {
	a := value.NewListOf([]value.Value{value.NewNumber(1)})
	b := value.NewListOf([]value.Value{value.NewNumber(2), value.NewNumber(3)})
	c := value.Concat(a, b)
	if c.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", c.Len())
	}
	c.Elements()[0] = value.NewNumber(99)
	if a.At(0).Num == 99 {
		t.Fatalf("Concat must not alias its inputs' backing arrays")
	}
}

func TestFormatTruncatesAtMaxDepth(t *testing.T) {
	inner := value.NewList(value.NewListOf([]value.Value{value.NewNumber(1)}))
	outer := value.NewList(value.NewListOf([]value.Value{inner}))

	var buf bytes.Buffer
	value.Format(&buf, outer, 1)
	if got := buf.String(); got != "((...))" {
		t.Fatalf("expected the inner list truncated to \"(...)\", got %q", got)
	}

	buf.Reset()
	value.Format(&buf, outer, 2)
	if got := buf.String(); got != "((1))" {
		t.Fatalf("expected full expansion, got %q", got)
	}
}

func TestClosureStringUsesDebugName(t *testing.T) {
	c := value.NewNativeClosure(func(value.NativeContext) (value.Value, error) {
		return value.NilValue, nil
	}, nil, "my-fn")
	if c.String() != "#<function my-fn>" {
		t.Fatalf("expected #<function my-fn>, got %s", c.String())
	}
}
