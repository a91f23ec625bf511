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

// Package token defines source locations and the lexical token kinds shared
// by the lexer, parser and AST translator.
package token

import "fmt"

// Loc is a 1-based line/column source position.
type Loc struct {
	Line   int
	Column int
}

// Nowhere is the sentinel location for synthesized code that has no source
// origin (e.g. nodes produced by the preprocessor).
var Nowhere = Loc{0, 0}

func (l Loc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Less reports whether l occurs strictly before o in the same file.
func (l Loc) Less(o Loc) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

// Range is a half-open-ish span between two Locs, inclusive on both ends in
// practice since every node spans at least one character.
type Range struct {
	Start Loc
	End   Loc
}

// NowhereRange is the sentinel range for synthesized code.
var NowhereRange = Range{Nowhere, Nowhere}

func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Span returns the smallest Range covering both a and b.
func Span(a, b Range) Range {
	start, end := a.Start, a.End
	if b.Start.Less(start) {
		start = b.Start
	}
	if end.Less(b.End) {
		end = b.End
	}
	return Range{start, end}
}

// Kind identifies the lexical category of a Token.
type Kind int

const (
	LPAREN Kind = iota
	RPAREN
	SYMBOL
	STRING
	NUMBER
	QUOTE
	QUASIQUOTE
	UNQUOTE
	UNQUOTE_SPLICING
	EOF
)

var kindNames = [...]string{
	"(", ")", "symbol", "string", "number", "'", "`", ",", ",@", "eof",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a single lexeme together with its source range. Lexeme is a
// slice of the original source buffer for SYMBOL/STRING/NUMBER tokens; for
// string tokens it is the raw, unescaped text between the quotes.
type Token struct {
	Kind   Kind
	Lexeme string
	Loc    Range
}
