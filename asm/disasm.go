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
	"fmt"
	"io"
	"strings"

	"github.com/bullno1/lip-sub000/bytecode"
)

// Disassemble writes a human-readable mnemonic listing of fi to w, one
// instruction per line, recursing into nested functions afterwards.
func Disassemble(w io.Writer, fi *bytecode.FunctionImage) error {
	return disassemble(w, fi, "")
}

func disassemble(w io.Writer, fi *bytecode.FunctionImage, prefix string) error {
	fmt.Fprintf(w, "%sfunction %s (args=%d vararg=%v locals=%d)\n", prefix, fi.SourceName, fi.NumArgs, fi.IsVararg, fi.NumLocals)
	for i, instr := range fi.Instructions {
		loc := fi.Locations[i+1]
		if _, err := fmt.Fprintf(w, "%s  %4d  %-6s %-8d ; %s\n", prefix, i, instr.Op(), instr.Operand(), loc); err != nil {
			return err
		}
	}
	for i, nested := range fi.NestedFunctions {
		fmt.Fprintf(w, "%s-- nested function %d --\n", prefix, i)
		if err := disassemble(w, nested, prefix+"  "); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleString is a convenience wrapper returning the listing as a
// string instead of writing to an io.Writer.
func DisassembleString(fi *bytecode.FunctionImage) string {
	var b strings.Builder
	_ = Disassemble(&b, fi)
	return b.String()
}
