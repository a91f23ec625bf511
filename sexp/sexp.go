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

// Package sexp defines the S-expression tree produced by the parser and
// consumed by the preprocessor and AST translator (spec §3, §4.3).
package sexp

import "github.com/bullno1/lip-sub000/token"

// Kind tags the variant of a Sexp node.
type Kind int

const (
	Number Kind = iota
	String
	Symbol
	List
)

// Sexp is a tagged union: Number/String/Symbol carry scalar data, List
// carries child nodes. The zero value is never a valid Sexp.
type Sexp struct {
	Kind     Kind
	Num      float64
	Str      string // decoded for String is NOT performed here; see ast.DecodeString
	Elements []Sexp
	Loc      token.Range
}

// NewNumber builds a Number Sexp.
func NewNumber(v float64, loc token.Range) Sexp { return Sexp{Kind: Number, Num: v, Loc: loc} }

// NewString builds a String Sexp. s is the raw, still-escaped lexeme.
func NewString(s string, loc token.Range) Sexp { return Sexp{Kind: String, Str: s, Loc: loc} }

// NewSymbol builds a Symbol Sexp.
func NewSymbol(s string, loc token.Range) Sexp { return Sexp{Kind: Symbol, Str: s, Loc: loc} }

// NewList builds a List Sexp.
func NewList(elems []Sexp, loc token.Range) Sexp { return Sexp{Kind: List, Elements: elems, Loc: loc} }

// IsSymbol reports whether s is a Symbol equal to name.
func (s Sexp) IsSymbol(name string) bool {
	return s.Kind == Symbol && s.Str == name
}

// Head returns the first element of a non-empty List, or ok=false.
func (s Sexp) Head() (Sexp, bool) {
	if s.Kind != List || len(s.Elements) == 0 {
		return Sexp{}, false
	}
	return s.Elements[0], true
}
