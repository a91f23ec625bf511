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
	"strconv"
	"text/scanner"

	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
)

// mnemonics maps a textual instruction name to its opcode, for the
// debug/test textual assembly format parsed below.
var mnemonics = map[string]opcode.Op{
	"NOP": opcode.NOP, "POP": opcode.POP, "NIL": opcode.NIL, "LDK": opcode.LDK,
	"LDI": opcode.LDI, "LDB": opcode.LDB, "PLHR": opcode.PLHR, "LARG": opcode.LARG,
	"LDLV": opcode.LDLV, "LDCV": opcode.LDCV, "IMP": opcode.IMP, "SET": opcode.SET,
	"JMP": opcode.JMP, "JOF": opcode.JOF, "CALL": opcode.CALL, "TAIL": opcode.TAIL,
	"RET": opcode.RET, "CLS": opcode.CLS, "RCLS": opcode.RCLS,
	"ADD": opcode.ADD, "SUB": opcode.SUB, "MUL": opcode.MUL, "FDIV": opcode.FDIV,
	"NOT": opcode.NOT, "CMP": opcode.CMP, "EQ": opcode.EQ, "NEQ": opcode.NEQ,
	"GT": opcode.GT, "LT": opcode.LT, "GTE": opcode.GTE, "LTE": opcode.LTE,
}

// ParseError reports a textual-assembly syntax problem at a scanner
// position, mirroring the teacher parser's error shape.
type ParseError struct {
	Pos scanner.Position
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// textParser reads a line-oriented mnemonic listing:
//
//	NAME: LDI 3
//	      JOF NAME
//
// A line optionally starts with "LABEL:" (a label definition), followed by
// one instruction: a mnemonic and an operand. Operands that aren't
// integers are resolved as label references for JMP/JOF, allowing forward
// jumps the same way the Ngaro textual assembler resolves forward labels.
type textParser struct {
	s      scanner.Scanner
	asm    *Assembler
	labels map[string]LabelId
}

// Parse reads a textual mnemonic listing and returns an Assembler ready
// for End. numArgs/isVararg/numLocals describe the function header, since
// the listing itself only carries the instruction stream.
func Parse(name string, r io.Reader, numArgs uint16, isVararg bool, numLocals uint16) (*Assembler, error) {
	p := &textParser{asm: New(numArgs, isVararg, numLocals), labels: make(map[string]LabelId)}
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats

	for tok := p.s.Scan(); tok != scanner.EOF; tok = p.s.Scan() {
		text := p.s.TokenText()
		pos := p.s.Pos()

		if tok == scanner.Ident && p.peekColon() {
			p.labels[text] = p.labelFor(text)
			p.asm.Label(p.labels[text], posToRange(pos))
			continue
		}

		op, ok := mnemonics[text]
		if !ok {
			return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("unknown mnemonic %q", text)}
		}
		loc := posToRange(pos)

		operand, err := p.scanOperand(op)
		if err != nil {
			return nil, err
		}
		p.asm.Add(op, operand, loc)
	}
	return p.asm, nil
}

func (p *textParser) labelFor(name string) LabelId {
	if id, ok := p.labels[name]; ok {
		return id
	}
	id := p.asm.NewLabel()
	p.labels[name] = id
	return id
}

func (p *textParser) peekColon() bool {
	// A label definition is "name:" with no space before the colon.
	if p.s.Peek() != ':' {
		return false
	}
	p.s.Next()
	return true
}

func (p *textParser) scanOperand(op opcode.Op) (int32, error) {
	tok := p.s.Scan()
	text := p.s.TokenText()
	switch tok {
	case scanner.Int:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return 0, &ParseError{Pos: p.s.Pos(), Msg: "bad integer operand: " + text}
		}
		return int32(n), nil
	case scanner.Ident:
		if op != opcode.JMP && op != opcode.JOF {
			return 0, &ParseError{Pos: p.s.Pos(), Msg: "label operand only valid for JMP/JOF"}
		}
		return int32(p.labelFor(text)), nil
	default:
		return 0, &ParseError{Pos: p.s.Pos(), Msg: "expected an operand"}
	}
}

func posToRange(pos scanner.Position) token.Range {
	loc := token.Loc{Line: pos.Line, Column: pos.Column}
	return token.Range{Start: loc, End: loc}
}
