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

package compiler_test

import (
	"strings"
	"testing"

	"github.com/bullno1/lip-sub000/ast"
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/compiler"
	"github.com/bullno1/lip-sub000/lexer"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/sexp"
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

func opsOf(fi *bytecode.FunctionImage) []opcode.Op {
	out := make([]opcode.Op, len(fi.Instructions))
	for i, instr := range fi.Instructions {
		out[i] = instr.Op()
	}
	return out
}

func TestCompileSmallIntLiteral(t *testing.T) {
	fi := compileSrc(t, "42")
	if len(fi.Instructions) != 2 {
		t.Fatalf("expected LDI;RET, got %v", opsOf(fi))
	}
	if fi.Instructions[0].Op() != opcode.LDI || fi.Instructions[0].Operand() != 42 {
		t.Fatalf("expected LDI 42, got %s %d", fi.Instructions[0].Op(), fi.Instructions[0].Operand())
	}
	if fi.Instructions[1].Op() != opcode.RET {
		t.Fatalf("expected trailing RET, got %s", fi.Instructions[1].Op())
	}
}

func TestCompileFractionalUsesConstantPool(t *testing.T) {
	fi := compileSrc(t, "3.5")
	if fi.Instructions[0].Op() != opcode.LDK {
		t.Fatalf("expected LDK for a non-integer literal, got %s", fi.Instructions[0].Op())
	}
	if len(fi.Constants) != 1 || fi.Constants[0].Num != 3.5 {
		t.Fatalf("expected a pooled 3.5 constant, got %+v", fi.Constants)
	}
}

func TestCompileReservedNames(t *testing.T) {
	fi := compileSrc(t, "true")
	if fi.Instructions[0].Op() != opcode.LDB || fi.Instructions[0].Operand() != 1 {
		t.Fatalf("expected LDB 1 for true, got %s %d", fi.Instructions[0].Op(), fi.Instructions[0].Operand())
	}
	fi = compileSrc(t, "nil")
	if fi.Instructions[0].Op() != opcode.NIL {
		t.Fatalf("expected NIL, got %s", fi.Instructions[0].Op())
	}
}

func TestCompileUnresolvedIdentifierBecomesImport(t *testing.T) {
	fi := compileSrc(t, "some-global")
	if fi.Instructions[0].Op() != opcode.IMP {
		t.Fatalf("expected IMP for a free identifier, got %s", fi.Instructions[0].Op())
	}
	if len(fi.Imports) != 1 || fi.Imports[0].Name != "some-global" {
		t.Fatalf("expected one import named some-global, got %+v", fi.Imports)
	}
}

func TestCompilePrimitiveApplicationInlines(t *testing.T) {
	fi := compileSrc(t, "(+ 1 2)")
	// Args compiled in reverse, then the callee, then inlined to ADD.
	got := opsOf(fi)
	want := []opcode.Op{opcode.LDI, opcode.LDI, opcode.ADD, opcode.RET}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if fi.Instructions[2].Operand() != 2 {
		t.Fatalf("expected ADD with argc 2, got %d", fi.Instructions[2].Operand())
	}
	if len(fi.Imports) != 0 {
		t.Fatalf("expected the + import to be inlined away, got %+v", fi.Imports)
	}
}

func TestCompileNonPrimitiveApplicationKeepsImportAndCall(t *testing.T) {
	fi := compileSrc(t, "(foo 1 2)")
	got := opsOf(fi)
	// The call is in tail position (immediately followed by the top-level
	// RET), so assembler pass 4 collapses CALL;RET into a single TAIL.
	last := got[len(got)-1]
	if last != opcode.TAIL {
		t.Fatalf("expected the call to fold into a tail call, got %v", got)
	}
	if fi.Instructions[len(fi.Instructions)-1].Operand() != 2 {
		t.Fatalf("expected TAIL with argc 2, got %d", fi.Instructions[len(fi.Instructions)-1].Operand())
	}
	if len(fi.Imports) != 1 || fi.Imports[0].Name != "foo" {
		t.Fatalf("expected one import named foo, got %+v", fi.Imports)
	}
}

func TestCompileIf(t *testing.T) {
	fi := compileSrc(t, "(if true 1 2)")
	got := opsOf(fi)
	want := []opcode.Op{opcode.LDB, opcode.JOF, opcode.LDI, opcode.RET, opcode.LDI, opcode.RET}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCompileIfWithoutElsePushesNil(t *testing.T) {
	fi := compileSrc(t, "(if true 1)")
	got := opsOf(fi)
	// LDB; JOF; LDI; RET; NIL; RET
	if got[len(got)-2] != opcode.NIL {
		t.Fatalf("expected NIL before the trailing RET, got %v", got)
	}
}

func TestCompileDoDropsIntermediates(t *testing.T) {
	fi := compileSrc(t, "(do 1 2 3)")
	got := opsOf(fi)
	want := []opcode.Op{opcode.LDI, opcode.POP, opcode.LDI, opcode.POP, opcode.LDI, opcode.RET}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCompileLetBindsLocalsAndRestoresScope(t *testing.T) {
	fi := compileSrc(t, "(let ((x 1)) x)")
	got := opsOf(fi)
	want := []opcode.Op{opcode.LDI, opcode.SET, opcode.LDLV, opcode.RET}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if fi.NumLocals != 1 {
		t.Fatalf("expected 1 local slot, got %d", fi.NumLocals)
	}
}

func TestCompileLetRecEmitsPlaceholderProtocol(t *testing.T) {
	fi := compileSrc(t, "(letrec ((f (fn (n) (f n)))) (f 1))")
	got := opsOf(fi)
	if got[0] != opcode.PLHR {
		t.Fatalf("expected PLHR first, got %v", got)
	}
	hasRCLS := false
	for _, op := range got {
		if op == opcode.RCLS {
			hasRCLS = true
		}
	}
	if !hasRCLS {
		t.Fatalf("expected an RCLS in %v", got)
	}
}

func TestCompileLambdaProducesNestedFunctionAndClosure(t *testing.T) {
	fi := compileSrc(t, "(fn (x) x)")
	if fi.NumFunctions() != 1 {
		t.Fatalf("expected 1 nested function, got %d", fi.NumFunctions())
	}
	nested := fi.NestedFunctions[0]
	if nested.NumArgs != 1 {
		t.Fatalf("expected 1 arg, got %d", nested.NumArgs)
	}
	if nested.Instructions[0].Op() != opcode.LARG {
		t.Fatalf("expected the body to load its own arg via LARG, got %s", nested.Instructions[0].Op())
	}

	got := opsOf(fi)
	if got[0] != opcode.CLS {
		t.Fatalf("expected CLS in the outer function, got %v", got)
	}
}

func TestCompileLambdaCapturesFreeVariable(t *testing.T) {
	fi := compileSrc(t, "(let ((x 1)) (fn () x))")
	var nested *bytecode.FunctionImage
	for _, f := range fi.NestedFunctions {
		nested = f
	}
	if nested == nil {
		t.Fatal("expected a nested function")
	}
	if nested.Instructions[0].Op() != opcode.LDCV {
		t.Fatalf("expected the captured x to load via LDCV, got %s", nested.Instructions[0].Op())
	}

	got := opsOf(fi)
	// ... SET x ... CLS fn_idx|(1<<12) ; LDLV x (the capture source instruction)
	foundCLS := false
	for i, op := range got {
		if op == opcode.CLS {
			foundCLS = true
			if i+1 >= len(got) || got[i+1] != opcode.LDLV {
				t.Fatalf("expected CLS to be followed by an LDLV capture instruction, got %v", got[i:])
			}
		}
	}
	if !foundCLS {
		t.Fatalf("expected a CLS instruction in %v", got)
	}
}

func TestCompileVarargLambda(t *testing.T) {
	fi := compileSrc(t, "(fn (a &rest) rest)")
	nested := fi.NestedFunctions[0]
	if !nested.IsVararg {
		t.Fatal("expected IsVararg to be true")
	}
	if nested.NumArgs != 2 {
		t.Fatalf("expected 2 formal args (a, rest), got %d", nested.NumArgs)
	}
}
