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

// Package compiler walks a translated ast.Node tree and emits bytecode via
// the asm package, following the emission rules and the letrec placeholder
// protocol of spec §4.7-§4.8.
package compiler

import (
	"math"

	"github.com/bullno1/lip-sub000/asm"
	"github.com/bullno1/lip-sub000/ast"
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
)

// Compile compiles a single expression into a zero-argument function image,
// the unit Runtime.Load expects for a one-shot eval.
func Compile(sourceName string, n ast.Node) (*bytecode.FunctionImage, error) {
	return CompileProgram(sourceName, []ast.Node{n})
}

// CompileProgram compiles a sequence of top-level forms (a source file's
// contents) into one zero-argument function image whose result is the
// value of the last form, matching Do's semantics.
func CompileProgram(sourceName string, exprs []ast.Node) (*bytecode.FunctionImage, error) {
	loc := token.NowhereRange
	if len(exprs) > 0 {
		loc = token.Span(exprs[0].Loc, exprs[len(exprs)-1].Loc)
	}

	a := asm.New(0, false, 0)
	s := newScope(nil, a, 0)
	if err := compileBody(s, exprs, loc); err != nil {
		return nil, err
	}
	s.asm.Add(opcode.RET, 0, loc)
	s.asm.SetNumLocals(uint16(s.nextLocal))
	return s.asm.End(sourceName, loc), nil
}

func compileNode(s *scope, n ast.Node) error {
	switch n.Kind {
	case ast.Number:
		return compileNumber(s, n)
	case ast.String:
		idx := s.asm.AllocStringConstant(string(n.Str))
		s.asm.Add(opcode.LDK, int32(idx), n.Loc)
		return nil
	case ast.Symbol:
		idx := s.asm.AllocSymbol(n.Name)
		s.asm.Add(opcode.LDK, int32(idx), n.Loc)
		return nil
	case ast.Identifier:
		return compileIdentifier(s, n)
	case ast.Application:
		return compileApplication(s, n)
	case ast.If:
		return compileIf(s, n)
	case ast.Do:
		return compileBody(s, n.Body, n.Loc)
	case ast.Let:
		return compileLet(s, n)
	case ast.LetRec:
		return compileLetRec(s, n)
	case ast.Lambda:
		return compileLambda(s, n)
	case ast.Declare:
		return compileDeclare(s, n)
	default:
		return lerror.New(lerror.Syntax, n.Loc, "unknown AST node kind %d", n.Kind)
	}
}

func compileNumber(s *scope, n ast.Node) error {
	if isSmallInt(n.Num) {
		s.asm.Add(opcode.LDI, int32(n.Num), n.Loc)
		return nil
	}
	idx := s.asm.AllocNumericConstant(n.Num)
	s.asm.Add(opcode.LDK, int32(idx), n.Loc)
	return nil
}

func isSmallInt(v float64) bool {
	if v != math.Trunc(v) {
		return false
	}
	return v >= opcode.MinOperand && v <= opcode.MaxOperand
}

func compileIdentifier(s *scope, n ast.Node) error {
	switch n.Name {
	case "true":
		s.asm.Add(opcode.LDB, 1, n.Loc)
		return nil
	case "false":
		s.asm.Add(opcode.LDB, 0, n.Loc)
		return nil
	case "nil":
		s.asm.Add(opcode.NIL, 0, n.Loc)
		return nil
	}
	if op, idx, ok := s.resolve(n.Name); ok {
		s.asm.Add(op, idx, n.Loc)
		return nil
	}
	imp := s.asm.AllocImport(n.Name)
	s.asm.Add(opcode.IMP, int32(imp), n.Loc)
	return nil
}

func compileApplication(s *scope, n ast.Node) error {
	if !opcode.FitsOperand(int64(len(n.Args))) {
		return lerror.New(lerror.Syntax, n.Loc, "too many arguments to fit a call's operand")
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		if err := compileNode(s, n.Args[i]); err != nil {
			return err
		}
	}
	if err := compileNode(s, *n.Fn); err != nil {
		return err
	}
	s.asm.Add(opcode.CALL, int32(len(n.Args)), n.Loc)
	return nil
}

func compileIf(s *scope, n ast.Node) error {
	if err := compileNode(s, *n.Cond); err != nil {
		return err
	}
	elseLbl := s.asm.NewLabel()
	doneLbl := s.asm.NewLabel()
	s.asm.Add(opcode.JOF, int32(elseLbl), n.Loc)

	if err := compileNode(s, *n.Then); err != nil {
		return err
	}
	s.asm.Add(opcode.JMP, int32(doneLbl), n.Loc)

	s.asm.Label(elseLbl, n.Loc)
	if n.Else != nil {
		if err := compileNode(s, *n.Else); err != nil {
			return err
		}
	} else {
		s.asm.Add(opcode.NIL, 0, n.Loc)
	}
	s.asm.Label(doneLbl, n.Loc)
	return nil
}

// compileBody emits each expression in sequence, discarding every
// intermediate result and leaving only the last expression's value (or Nil
// for an empty body) on the operand stack.
func compileBody(s *scope, body []ast.Node, loc token.Range) error {
	if len(body) == 0 {
		s.asm.Add(opcode.NIL, 0, loc)
		return nil
	}
	for i, expr := range body {
		if err := compileNode(s, expr); err != nil {
			return err
		}
		if i != len(body)-1 {
			s.asm.Add(opcode.POP, 1, expr.Loc)
		}
	}
	return nil
}

type savedBinding struct {
	name string
	had  bool
	prev varBinding
}

func shadowBindings(s *scope, names []string) []savedBinding {
	saved := make([]savedBinding, len(names))
	for i, name := range names {
		prev, had := s.vars[name]
		saved[i] = savedBinding{name: name, had: had, prev: prev}
	}
	return saved
}

func restoreBindings(s *scope, saved []savedBinding) {
	for _, sv := range saved {
		if sv.had {
			s.vars[sv.name] = sv.prev
		} else {
			delete(s.vars, sv.name)
		}
	}
}

func bindingNames(bindings []ast.Binding) []string {
	names := make([]string, len(bindings))
	for i, b := range bindings {
		names[i] = b.Name
	}
	return names
}

func compileLet(s *scope, n ast.Node) error {
	saved := shadowBindings(s, bindingNames(n.Bindings))
	for _, b := range n.Bindings {
		if err := compileNode(s, b.Expr); err != nil {
			return err
		}
		idx := s.bindLocal(b.Name)
		s.asm.Add(opcode.SET, idx, b.Loc)
	}
	if err := compileBody(s, n.Body, n.Loc); err != nil {
		return err
	}
	restoreBindings(s, saved)
	return nil
}

// compileLetRec implements the placeholder protocol of spec §4.8: every
// slot is pre-allocated and marked with PLHR before any value expression
// runs, so that a binding's own closure (or a sibling's) can capture it
// before it has a real value; RCLS then patches those captured
// placeholders once every SET has run.
func compileLetRec(s *scope, n ast.Node) error {
	saved := shadowBindings(s, bindingNames(n.Bindings))

	indices := make([]int32, len(n.Bindings))
	for i, b := range n.Bindings {
		idx := s.bindLocal(b.Name)
		indices[i] = idx
		s.asm.Add(opcode.PLHR, idx, b.Loc)
	}
	for i, b := range n.Bindings {
		if err := compileNode(s, b.Expr); err != nil {
			return err
		}
		s.asm.Add(opcode.SET, indices[i], b.Loc)
	}
	for _, idx := range indices {
		s.asm.Add(opcode.RCLS, idx, n.Loc)
	}

	if err := compileBody(s, n.Body, n.Loc); err != nil {
		return err
	}
	restoreBindings(s, saved)
	return nil
}

const (
	maxFunctionIndex = 0xFFF
	maxCaptureCount  = 0xFFF
)

// compileLambda opens a fresh scope (and assembler) for the body, binds
// params as LARG slots, compiles the body there, then emits CLS in the
// *outer* scope followed by one real addressing instruction per captured
// free variable, naming where the outer frame holds it.
func compileLambda(outer *scope, n ast.Node) error {
	numArgs := uint16(len(n.Params))
	nestedAsm := asm.New(numArgs, n.IsVararg, 0)
	nested := newScope(outer, nestedAsm, numArgs)
	for i, p := range n.Params {
		nested.bindArg(p, int32(i))
	}

	if err := compileBody(nested, n.Body, n.Loc); err != nil {
		return err
	}
	nested.asm.Add(opcode.RET, 0, n.Loc)
	nested.asm.SetNumLocals(uint16(nested.nextLocal) - numArgs)

	fi := nested.asm.End(n.Loc.String(), n.Loc)

	fnIdx := outer.asm.NewFunction(fi)
	numCaptures := len(nested.captureOrder)
	if fnIdx > maxFunctionIndex || numCaptures > maxCaptureCount {
		return lerror.New(lerror.Syntax, n.Loc, "function exceeds the nested-function or capture limit")
	}

	operand := int32(fnIdx) | int32(numCaptures)<<12
	outer.asm.Add(opcode.CLS, operand, n.Loc)
	for _, name := range nested.captureOrder {
		c := nested.captures[name]
		outer.asm.Add(c.op, c.index, n.Loc)
	}
	return nil
}

// compileDeclare lowers (declare (name param...) body...) into the same
// code a call to (declare 'name (fn (param...) body...)) would produce: it
// builds the lambda node compileLambda already knows how to close over the
// enclosing scope, and an Application of the "declare" identifier, which
// resolves (spec §4.10) to the loading context's registrar, visible only
// while a module load is in progress via runtime's overlay resolver. A
// nested declare can never reach here: ast.Translate rejects it before the
// compiler ever sees this node (spec §4.10, §8).
func compileDeclare(s *scope, n ast.Node) error {
	lambda := ast.Node{Kind: ast.Lambda, Loc: n.Loc, Params: n.Params, IsVararg: n.IsVararg, Body: n.Body}
	declareFn := ast.NewIdentifier("declare", n.Loc)
	call := ast.Node{
		Kind: ast.Application,
		Loc:  n.Loc,
		Fn:   &declareFn,
		Args: []ast.Node{ast.NewSymbol(n.Name, n.Loc), lambda},
	}
	return compileApplication(s, call)
}
