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

package bytecode_test

import (
	"bytes"
	"testing"

	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

func sampleImage() *bytecode.FunctionImage {
	nested := &bytecode.FunctionImage{
		SourceName:   "sample.lip",
		NumArgs:      1,
		NumLocals:    1,
		Imports:      []bytecode.Import{{Name: "print", ResolvedValue: value.NewNumber(1)}},
		Constants:    []value.Value{value.NewNumber(1)},
		Instructions: []opcode.Instruction{opcode.Encode(opcode.RET, 0)},
		Locations:    make([]token.Range, 2),
	}
	return &bytecode.FunctionImage{
		SourceName:      "sample.lip",
		NumArgs:         2,
		IsVararg:        true,
		NumLocals:       3,
		Imports:         []bytecode.Import{{Name: "+", ResolvedValue: value.NewNumber(0)}},
		Constants:       []value.Value{value.NewString("hi"), value.NewBoolean(true), value.NilValue},
		NestedFunctions: []*bytecode.FunctionImage{nested},
		Instructions:    []opcode.Instruction{opcode.Encode(opcode.ADD, 1), opcode.Encode(opcode.RET, 0)},
		Locations:       make([]token.Range, 3),
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	fi := sampleImage()

	var buf bytes.Buffer
	if err := bytecode.Marshal(&buf, fi); err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	isBytecode, err := bytecode.ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if !isBytecode {
		t.Fatalf("expected a bytecode stream")
	}

	got, err := bytecode.Unmarshal(&buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.SourceName != fi.SourceName || got.NumArgs != fi.NumArgs || got.IsVararg != fi.IsVararg {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Imports) != 1 || got.Imports[0].Name != "+" || got.Imports[0].ResolvedValue.Num != 0 {
		t.Fatalf("imports mismatch: %+v", got.Imports)
	}
	if len(got.Constants) != 3 || got.Constants[0].Str != "hi" || !got.Constants[1].Bool {
		t.Fatalf("constants mismatch: %+v", got.Constants)
	}
	if len(got.NestedFunctions) != 1 || got.NestedFunctions[0].Constants[0].Num != 1 {
		t.Fatalf("nested function mismatch: %+v", got.NestedFunctions)
	}
	if len(got.Instructions) != 2 || got.Instructions[0].Op() != opcode.ADD {
		t.Fatalf("instructions mismatch: %+v", got.Instructions)
	}
	if !got.Linked() {
		t.Fatalf("expected every import (including nested) to round trip resolved")
	}
}

func TestReadHeaderRejectsNonBytecodeStream(t *testing.T) {
	buf := bytes.NewBufferString("(+ 1 1)")
	isBytecode, err := bytecode.ReadHeader(buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if isBytecode {
		t.Fatalf("expected source text to not look like bytecode")
	}
}

func TestBundleAddLookupAndRoundTrip(t *testing.T) {
	b := &bytecode.Bundle{}
	b.Add("main", sampleImage())
	b.Add("util", sampleImage())

	if b.Lookup("util") == nil {
		t.Fatalf("expected to find util in the bundle")
	}
	if b.Lookup("missing") != nil {
		t.Fatalf("expected no entry for a missing name")
	}

	var buf bytes.Buffer
	if err := bytecode.MarshalBundle(&buf, b); err != nil {
		t.Fatalf("MarshalBundle: %v", err)
	}

	isBytecode, err := bytecode.ReadHeader(&buf)
	if err != nil || !isBytecode {
		t.Fatalf("ReadHeader: isBytecode=%v err=%v", isBytecode, err)
	}

	got, err := bytecode.UnmarshalBundle(&buf)
	if err != nil {
		t.Fatalf("UnmarshalBundle: %v", err)
	}
	if len(got.Manifest) != 2 || got.Manifest[0] != "main" || got.Manifest[1] != "util" {
		t.Fatalf("manifest mismatch: %v", got.Manifest)
	}
	if got.Lookup("main").SourceName != "sample.lip" {
		t.Fatalf("expected round-tripped image to be lookupable by name")
	}
}
