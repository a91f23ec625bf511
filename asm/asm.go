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

package asm

import (
	"github.com/bullno1/lip-sub000/arena"
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

// LabelId identifies a not-yet-resolved jump target.
type LabelId uint32

type taggedInstr struct {
	Op      opcode.Op
	Operand int32
	Loc     token.Range
}

// initialInstrCap is the instruction buffer's starting size; most function
// bodies fit without ever triggering a Resize.
const initialInstrCap = 16

// Assembler accumulates instructions, a label table, and dedup'd
// constant/import/string pools for one function, to be finalized by End.
//
// The instruction buffer is the one growing-in-place temporary a compile
// actually needs (every Add call is a potential reallocation, unlike the
// constant/import/nested-function pools which only ever append a handful of
// entries), so it is backed by a relocating arena.Allocator rather than a
// plain Go slice: instrRef addresses the buffer and instrLen tracks how much
// of it is in use, growing by doubling through Resize instead of relying on
// Go's own slice growth.
type Assembler struct {
	instrArena *arena.Allocator[taggedInstr]
	instrRef   arena.Ref
	instrLen   int
	nextID     LabelId

	numArgs   uint16
	isVararg  bool
	numLocals uint16

	imports     []bytecode.Import
	importIndex map[string]int

	constants     []value.Value
	numberIndex   map[float64]int
	stringIndex   map[string]int
	symbolIndex   map[string]int

	nested []*bytecode.FunctionImage
}

// New creates an Assembler for a function with the given fixed arity.
func New(numArgs uint16, isVararg bool, numLocals uint16) *Assembler {
	instrArena := arena.NewRelocating[taggedInstr](initialInstrCap)
	return &Assembler{
		instrArena:  instrArena,
		instrRef:    instrArena.NewRef(initialInstrCap),
		numArgs:     numArgs,
		isVararg:    isVararg,
		numLocals:   numLocals,
		importIndex: make(map[string]int),
		numberIndex: make(map[float64]int),
		stringIndex: make(map[string]int),
		symbolIndex: make(map[string]int),
	}
}

// NewLabel allocates a fresh label id, to be fixed at a position with
// Label and referenced from Add(JMP/JOF, ...) before that.
func (a *Assembler) NewLabel() LabelId {
	id := a.nextID
	a.nextID++
	return id
}

// Add appends one instruction. For JMP/JOF, operand is a LabelId (narrowed
// to int32); for every other opcode it is the real operand value.
func (a *Assembler) Add(op opcode.Op, operand int32, loc token.Range) {
	buf := a.instrArena.Get(a.instrRef)
	if a.instrLen == len(buf) {
		buf = a.instrArena.Resize(a.instrRef, len(buf)*2)
	}
	buf[a.instrLen] = taggedInstr{Op: op, Operand: operand, Loc: loc}
	a.instrLen++
}

// Label marks id's position as the next instruction to be added.
func (a *Assembler) Label(id LabelId, loc token.Range) {
	a.Add(opcode.LABEL, int32(id), loc)
}

// SetNumLocals overrides the function header's local-slot count. The
// compiler calls this once it has finished emitting let/letrec bindings and
// knows the final count, since New must be called before any of that.
func (a *Assembler) SetNumLocals(n uint16) {
	a.numLocals = n
}

// NewFunction registers a compiled nested function (a Lambda body) and
// returns its index into the nested-function table, for use as CLS's
// fn_idx operand component.
func (a *Assembler) NewFunction(nested *bytecode.FunctionImage) uint32 {
	a.nested = append(a.nested, nested)
	return uint32(len(a.nested) - 1)
}

// AllocImport interns name into the import pool, returning its slot index.
func (a *Assembler) AllocImport(name string) uint32 {
	if i, ok := a.importIndex[name]; ok {
		return uint32(i)
	}
	i := len(a.imports)
	a.imports = append(a.imports, bytecode.Import{Name: name, ResolvedValue: value.NewPlaceholder(0)})
	a.importIndex[name] = i
	return uint32(i)
}

// AllocNumericConstant interns a numeric constant.
func (a *Assembler) AllocNumericConstant(n float64) uint32 {
	if i, ok := a.numberIndex[n]; ok {
		return uint32(i)
	}
	i := len(a.constants)
	a.constants = append(a.constants, value.NewNumber(n))
	a.numberIndex[n] = i
	return uint32(i)
}

// AllocStringConstant interns a string constant.
func (a *Assembler) AllocStringConstant(s string) uint32 {
	if i, ok := a.stringIndex[s]; ok {
		return uint32(i)
	}
	i := len(a.constants)
	a.constants = append(a.constants, value.NewString(s))
	a.stringIndex[s] = i
	return uint32(i)
}

// AllocSymbol interns a quoted-symbol constant.
func (a *Assembler) AllocSymbol(s string) uint32 {
	if i, ok := a.symbolIndex[s]; ok {
		return uint32(i)
	}
	i := len(a.constants)
	a.constants = append(a.constants, value.NewSymbol(s))
	a.symbolIndex[s] = i
	return uint32(i)
}

// End runs the five lowering passes in order and produces the immutable
// image. wholeRange is locations[0], the range covering the whole function.
func (a *Assembler) End(sourceName string, wholeRange token.Range) *bytecode.FunctionImage {
	instrs := append([]taggedInstr(nil), a.instrArena.Get(a.instrRef)[:a.instrLen]...)
	instrs = eliminateDeadLoads(instrs)
	instrs = foldJumpToReturn(instrs)
	instrs = inlinePrimitives(instrs, a.imports)
	// Keep only the imports an IMP still references (an inlined primitive's
	// slot is dropped) and renumber the IMP operands to match.
	var imports []bytecode.Import
	remap := make(map[int32]int32)
	for i, ins := range instrs {
		if ins.Op != opcode.IMP || ins.Operand < 0 || int(ins.Operand) >= len(a.imports) {
			continue
		}
		if _, ok := remap[ins.Operand]; !ok {
			remap[ins.Operand] = int32(len(imports))
			imports = append(imports, a.imports[ins.Operand])
		}
		instrs[i].Operand = remap[ins.Operand]
	}
	instrs = optimizeTailCalls(instrs)
	finalInstrs, locations := resolveLabels(instrs, wholeRange)

	return &bytecode.FunctionImage{
		SourceName:      sourceName,
		NumArgs:         a.numArgs,
		IsVararg:        a.isVararg,
		NumLocals:       a.numLocals,
		Imports:         imports,
		Constants:       a.constants,
		NestedFunctions: a.nested,
		Instructions:    finalInstrs,
		Locations:       locations,
	}
}
