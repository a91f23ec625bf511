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

package compiler

import (
	"github.com/bullno1/lip-sub000/asm"
	"github.com/bullno1/lip-sub000/opcode"
)

// varBinding is where a name lives in the current frame's env array.
type varBinding struct {
	op    opcode.Op // LARG or LDLV; a capture's source may also be LDCV
	index int32
}

// scope is one lambda's (or the top-level script's) compile-time frame: its
// own assembler, its own variable table, and the set of names it had to
// capture from an enclosing scope (spec §4.7.1).
//
// Captures are resolved the way nested closures resolve upvalues in other
// single-pass compilers for lexically-scoped languages: a name not found
// locally is looked up in the parent scope (recursively), and each scope on
// the path records its own capture slot, chaining LDCV references one
// level at a time rather than reaching directly into a distant ancestor's
// frame.
type scope struct {
	parent *scope
	asm    *asm.Assembler

	vars      map[string]varBinding
	nextLocal int32

	captureOrder []string
	captures     map[string]varBinding
}

func newScope(parent *scope, a *asm.Assembler, numArgs uint16) *scope {
	return &scope{
		parent:    parent,
		asm:       a,
		vars:      make(map[string]varBinding),
		nextLocal: int32(numArgs),
		captures:  make(map[string]varBinding),
	}
}

func (s *scope) bindArg(name string, index int32) {
	s.vars[name] = varBinding{op: opcode.LARG, index: index}
}

// bindLocal allocates a fresh local slot for name, shadowing any existing
// binding of the same name in this scope.
func (s *scope) bindLocal(name string) int32 {
	idx := s.nextLocal
	s.nextLocal++
	s.vars[name] = varBinding{op: opcode.LDLV, index: idx}
	return idx
}

// resolve looks name up as a local, an already-captured upvalue, or (by
// recursing into the parent) a fresh capture. ok is false when name is
// free all the way up the scope chain, meaning the caller should treat it
// as a global import.
func (s *scope) resolve(name string) (op opcode.Op, index int32, ok bool) {
	if b, found := s.vars[name]; found {
		return b.op, b.index, true
	}
	if b, found := s.captures[name]; found {
		return opcode.LDCV, b.index, true
	}
	if s.parent == nil {
		return 0, 0, false
	}
	srcOp, srcIdx, found := s.parent.resolve(name)
	if !found {
		return 0, 0, false
	}
	idx := s.addCapture(name, srcOp, srcIdx)
	return opcode.LDCV, idx, true
}

// addCapture records that this scope's closure must capture name from its
// immediately enclosing frame, addressed there as (srcOp, srcIndex).
func (s *scope) addCapture(name string, srcOp opcode.Op, srcIndex int32) int32 {
	if b, found := s.captures[name]; found {
		return b.index
	}
	idx := int32(len(s.captureOrder))
	s.captureOrder = append(s.captureOrder, name)
	s.captures[name] = varBinding{op: srcOp, index: srcIndex}
	return idx
}
