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

package asm_test

import (
	"testing"

	"github.com/bullno1/lip-sub000/asm"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
)

var nowhere = token.NowhereRange

func TestDeadLoadElimination(t *testing.T) {
	a := asm.New(0, false, 0)
	a.Add(opcode.NIL, 0, nowhere)
	a.Add(opcode.POP, 1, nowhere)
	a.Add(opcode.LDB, 1, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 1 {
		t.Fatalf("expected dead NIL;POP pair to be dropped, got %d instructions", fi.NumInstructions())
	}
	if fi.Instructions[0].Op() != opcode.LDB {
		t.Fatalf("expected surviving instruction to be LDB, got %s", fi.Instructions[0].Op())
	}
}

func TestDeadLoadKeptAsLastInstruction(t *testing.T) {
	a := asm.New(0, false, 0)
	a.Add(opcode.NIL, 0, nowhere)
	a.Add(opcode.POP, 1, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 2 {
		t.Fatalf("expected trailing NIL;POP to survive, got %d instructions", fi.NumInstructions())
	}
}

func TestJumpToReturnFolding(t *testing.T) {
	a := asm.New(0, false, 0)
	lbl := a.NewLabel()
	a.Add(opcode.JMP, int32(lbl), nowhere)
	a.Label(lbl, nowhere)
	a.Add(opcode.RET, 0, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 2 {
		t.Fatalf("expected 2 instructions, got %d", fi.NumInstructions())
	}
	if fi.Instructions[0].Op() != opcode.RET {
		t.Fatalf("expected JMP folded into RET, got %s", fi.Instructions[0].Op())
	}
}

func TestPrimitiveInlining(t *testing.T) {
	a := asm.New(2, false, 0)
	imp := a.AllocImport("+")
	a.Add(opcode.IMP, int32(imp), nowhere)
	a.Add(opcode.CALL, 2, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 1 {
		t.Fatalf("expected IMP;CALL to collapse, got %d instructions", fi.NumInstructions())
	}
	if fi.Instructions[0].Op() != opcode.ADD || fi.Instructions[0].Operand() != 2 {
		t.Fatalf("expected ADD 2, got %s %d", fi.Instructions[0].Op(), fi.Instructions[0].Operand())
	}
}

func TestTailCallOptimization(t *testing.T) {
	a := asm.New(0, false, 0)
	a.Add(opcode.CALL, 3, nowhere)
	a.Add(opcode.RET, 0, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 1 {
		t.Fatalf("expected CALL;RET to collapse to TAIL, got %d instructions", fi.NumInstructions())
	}
	if fi.Instructions[0].Op() != opcode.TAIL || fi.Instructions[0].Operand() != 3 {
		t.Fatalf("expected TAIL 3, got %s %d", fi.Instructions[0].Op(), fi.Instructions[0].Operand())
	}
}

func TestTailCallThroughLabel(t *testing.T) {
	a := asm.New(0, false, 0)
	lbl := a.NewLabel()
	a.Add(opcode.CALL, 1, nowhere)
	a.Label(lbl, nowhere)
	a.Add(opcode.RET, 0, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 2 {
		t.Fatalf("expected CALL;LABEL;RET to become TAIL;RET, got %d instructions", fi.NumInstructions())
	}
	if fi.Instructions[0].Op() != opcode.TAIL {
		t.Fatalf("expected TAIL, got %s", fi.Instructions[0].Op())
	}
}

func TestLabelResolutionForwardAndBackward(t *testing.T) {
	a := asm.New(0, false, 0)
	fwd := a.NewLabel()
	back := a.NewLabel()
	a.Add(opcode.JMP, int32(fwd), nowhere)
	a.Label(back, nowhere)
	a.Add(opcode.LDB, 0, nowhere)
	a.Add(opcode.JMP, int32(back), nowhere)
	a.Label(fwd, nowhere)
	a.Add(opcode.NOP, 0, nowhere)
	fi := a.End("test", nowhere)

	if fi.NumInstructions() != 4 {
		t.Fatalf("expected 4 instructions, got %d", fi.NumInstructions())
	}
	if got := fi.Instructions[0].Operand(); got != 3 {
		t.Fatalf("expected forward jump to resolve to address 3, got %d", got)
	}
	if got := fi.Instructions[2].Operand(); got != 1 {
		t.Fatalf("expected backward jump to resolve to address 1, got %d", got)
	}
}

func TestDedupedConstantsAndImports(t *testing.T) {
	a := asm.New(0, false, 0)
	i1 := a.AllocImport("foo")
	i2 := a.AllocImport("foo")
	if i1 != i2 {
		t.Fatalf("expected import dedup, got %d and %d", i1, i2)
	}
	c1 := a.AllocNumericConstant(3.14)
	c2 := a.AllocNumericConstant(3.14)
	if c1 != c2 {
		t.Fatalf("expected numeric constant dedup, got %d and %d", c1, c2)
	}
	s1 := a.AllocStringConstant("hi")
	s2 := a.AllocStringConstant("hi")
	if s1 != s2 {
		t.Fatalf("expected string constant dedup, got %d and %d", s1, s2)
	}
}
