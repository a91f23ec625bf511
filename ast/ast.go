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

// Package ast defines the typed AST produced by translating a preprocessed
// S-expression tree (spec §3, §4.5) and consumed by the compiler.
package ast

import "github.com/bullno1/lip-sub000/token"

// Kind tags the variant of a Node.
type Kind int

const (
	Number Kind = iota
	String
	Symbol // a quoted symbol literal, e.g. the value produced by 'foo
	Identifier
	Application
	If
	Let
	LetRec
	Lambda
	Do
	Declare
)

// Binding is one (name expr) pair of a let/letrec form.
type Binding struct {
	Name string
	Expr Node
	Loc  token.Range
}

// Node is a tagged union covering every AST shape named in spec §3.
type Node struct {
	Kind Kind
	Loc  token.Range

	Num  float64 // Number
	Str  []byte  // String, decoded
	Name string  // Symbol / Identifier / Declare (the registered name)

	Fn   *Node  // Application
	Args []Node // Application

	Cond *Node // If
	Then *Node // If
	Else *Node // If (nil when absent)

	Bindings []Binding // Let/LetRec
	Body     []Node    // Let/LetRec/Lambda/Do/Declare

	Params   []string // Lambda/Declare
	IsVararg bool     // Lambda/Declare
}

// NewNumber builds a Number literal node.
func NewNumber(v float64, loc token.Range) Node { return Node{Kind: Number, Num: v, Loc: loc} }

// NewString builds a String literal node from already-decoded bytes.
func NewString(s []byte, loc token.Range) Node { return Node{Kind: String, Str: s, Loc: loc} }

// NewSymbol builds a quoted-symbol literal node.
func NewSymbol(name string, loc token.Range) Node { return Node{Kind: Symbol, Name: name, Loc: loc} }

// NewIdentifier builds a variable-reference node.
func NewIdentifier(name string, loc token.Range) Node {
	return Node{Kind: Identifier, Name: name, Loc: loc}
}
