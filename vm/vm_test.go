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

package vm_test

import (
	"strings"
	"testing"

	"github.com/bullno1/lip-sub000/ast"
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/compiler"
	"github.com/bullno1/lip-sub000/lexer"
	"github.com/bullno1/lip-sub000/sexp"
	"github.com/bullno1/lip-sub000/value"
	"github.com/bullno1/lip-sub000/vm"
)

func compileSrc(t *testing.T, src string) *bytecode.FunctionImage {
	t.Helper()
	p := sexp.New(lexer.New(strings.NewReader(src), "test"), nil)
	s, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	n, err := ast.Translate(s)
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	fi, err := compiler.Compile("test", n)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return fi
}

// link resolves every import against a fixed global table, the way
// runtime.Link does against a symbol table.
func link(t *testing.T, fi *bytecode.FunctionImage, globals map[string]value.Value) {
	t.Helper()
	for i, imp := range fi.Imports {
		v, ok := globals[imp.Name]
		if !ok {
			t.Fatalf("unresolved import %q", imp.Name)
		}
		fi.Imports[i].ResolvedValue = v
	}
	for _, nested := range fi.NestedFunctions {
		link(t, nested, globals)
	}
}

func run(t *testing.T, src string, globals map[string]value.Value) value.Value {
	t.Helper()
	fi := compileSrc(t, src)
	link(t, fi, globals)
	result, err := vm.New().Run(fi, nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return result
}

func TestRunArithmetic(t *testing.T) {
	v := run(t, "(+ 1 2 3)", nil)
	if v.Kind != value.Number || v.Num != 6 {
		t.Fatalf("expected 6, got %v", v)
	}

	v = run(t, "(- 10 4 1)", nil)
	if v.Num != 5 {
		t.Fatalf("expected 5, got %v", v)
	}

	v = run(t, "(* 2 3 4)", nil)
	if v.Num != 24 {
		t.Fatalf("expected 24, got %v", v)
	}

	v = run(t, "(- 5)", nil)
	if v.Num != -5 {
		t.Fatalf("expected -5, got %v", v)
	}
}

func TestRunComparison(t *testing.T) {
	v := run(t, "(< 1 2)", nil)
	if v.Kind != value.Boolean || !v.Bool {
		t.Fatalf("expected true, got %v", v)
	}
	v = run(t, "(== 1 2)", nil)
	if v.Bool {
		t.Fatalf("expected false, got %v", v)
	}
}

func TestRunIf(t *testing.T) {
	v := run(t, "(if (< 1 2) \"yes\" \"no\")", nil)
	if v.Kind != value.String || v.Str != "yes" {
		t.Fatalf("expected \"yes\", got %v", v)
	}
}

func TestRunLet(t *testing.T) {
	v := run(t, "(let ((x 1) (y 2)) (+ x y))", nil)
	if v.Num != 3 {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestRunLambdaApplication(t *testing.T) {
	v := run(t, "((fn (x y) (+ x y)) 3 4)", nil)
	if v.Num != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestRunClosureCapture(t *testing.T) {
	v := run(t, "(let ((x 10)) ((fn (y) (+ x y)) 5))", nil)
	if v.Num != 15 {
		t.Fatalf("expected 15, got %v", v)
	}
}

func TestRunLetRecSelfRecursion(t *testing.T) {
	src := `(letrec ((count-down
                          (fn (n acc)
                            (if (== n 0) acc (count-down (- n 1) (+ acc 1))))))
                  (count-down 1000 0))`
	v := run(t, src, nil)
	if v.Num != 1000 {
		t.Fatalf("expected 1000, got %v", v)
	}
}

func TestRunMutualRecursionViaLetRec(t *testing.T) {
	src := `(letrec ((even? (fn (n) (if (== n 0) true (odd? (- n 1)))))
                          (odd? (fn (n) (if (== n 0) false (even? (- n 1))))))
                  (even? 10))`
	v := run(t, src, nil)
	if v.Kind != value.Boolean || !v.Bool {
		t.Fatalf("expected true, got %v", v)
	}
}

func TestRunVarargsCollectsRest(t *testing.T) {
	src := `((fn (a &rest) rest) 1 2 3)`
	v := run(t, src, nil)
	if v.Kind != value.List {
		t.Fatalf("expected a list, got %v", v)
	}
	if v.L.Len() != 2 || v.L.At(0).Num != 2 || v.L.At(1).Num != 3 {
		t.Fatalf("expected (2 3), got %v", v)
	}
}

func TestRunNativeCall(t *testing.T) {
	double := value.NewFunction(value.NewNativeClosure(func(ctx value.NativeContext) (value.Value, error) {
		args := ctx.Args()
		return value.NewNumber(args[0].Num * 2), nil
	}, nil, "double"))

	v := run(t, "(double 21)", map[string]value.Value{"double": double})
	if v.Num != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestRunTailCallIntoNative(t *testing.T) {
	identity := value.NewFunction(value.NewNativeClosure(func(ctx value.NativeContext) (value.Value, error) {
		return ctx.Args()[0], nil
	}, nil, "identity"))

	src := `(letrec ((f (fn (n) (identity n)))) (f 9))`
	v := run(t, src, map[string]value.Value{"identity": identity})
	if v.Num != 9 {
		t.Fatalf("expected 9, got %v", v)
	}
}

func TestRunDeepTailRecursionDoesNotOverflowGoStack(t *testing.T) {
	src := `(letrec ((loop (fn (n) (if (== n 0) "done" (loop (- n 1))))))
                  (loop 200000))`
	v := run(t, src, nil)
	if v.Kind != value.String || v.Str != "done" {
		t.Fatalf("expected \"done\", got %v", v)
	}
}
