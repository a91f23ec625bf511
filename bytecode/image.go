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

// Package bytecode defines the function-image data model (spec §3), the
// interchange file header (spec §6) and the multi-module Bundle container
// supplemented from the original bundler.c.
package bytecode

import (
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

// Import is a named external reference, resolved at link time (spec §4.10).
// ResolvedValue starts as Placeholder(0) and is overwritten in place by
// Link.
type Import struct {
	Name          string
	ResolvedValue value.Value
}

// FunctionImage is the immutable, position-independent unit produced by
// Assembler.End (spec §3). Go's GC-managed slices are this module's
// "owned byte buffer with typed accessors": there is no pointer arithmetic
// to simulate, so the runtime representation is a plain struct instead of
// a manually packed blob. Marshal/Unmarshal in this package produce and
// consume the actual packed byte form for the §6 interchange format.
type FunctionImage struct {
	SourceName string

	NumArgs  uint16
	IsVararg bool

	NumLocals uint16

	Imports   []Import
	Constants []value.Value

	NestedFunctions []*FunctionImage

	Instructions []opcode.Instruction
	// Locations has len(Instructions)+1 entries: Locations[0] is the whole
	// function's range, Locations[i+1] is instruction i's location.
	Locations []token.Range
}

// NumImports, NumConstants, NumFunctions, NumInstructions mirror the
// header fields of spec §3 directly from the backing slices.
func (fi *FunctionImage) NumImports() int      { return len(fi.Imports) }
func (fi *FunctionImage) NumConstants() int    { return len(fi.Constants) }
func (fi *FunctionImage) NumFunctions() int    { return len(fi.NestedFunctions) }
func (fi *FunctionImage) NumInstructions() int { return len(fi.Instructions) }

// Linked reports whether every import (recursively, including nested
// functions) has been resolved away from its initial Placeholder(0).
func (fi *FunctionImage) Linked() bool {
	for _, imp := range fi.Imports {
		if imp.ResolvedValue.Kind == value.Placeholder {
			return false
		}
	}
	for _, nested := range fi.NestedFunctions {
		if !nested.Linked() {
			return false
		}
	}
	return true
}
