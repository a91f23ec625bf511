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

// Package preprocess expands `quote` forms into /list applications
// (spec §4.4).
//
// ExpandQuote is invoked directly by the AST translator's "quote"
// special-form handler, one list-nesting level at a time: each expansion
// step re-wraps unresolved nested forms as (quote x) for the translator to
// re-enter, rather than flattening the whole tree in one pass.
//
// `quasiquote` is not expanded here: unlike quote, it mixes literal
// structure with live sub-expressions introduced by `unquote`/
// `unquote-splicing`, and once those are substituted into a plain S-
// expression there is no way to tell, walking the result, which symbols
// are quoted literals and which are variable references needing full
// translation (including special forms). ast.translateQuasiquoted does
// the equivalent transform directly over Node construction instead, where
// that distinction is tracked by recursing into the right translation
// function as it goes.
package preprocess

import "github.com/bullno1/lip-sub000/sexp"

// ExpandQuote implements one step of `quote` expansion. Atoms (numbers,
// strings, symbols) are returned unchanged: the caller (the AST translator)
// turns a returned Symbol into a Symbol literal node and a returned
// Number/String into its literal node directly. A List becomes
// `(/list q(e1) ... q(en))`, where q(e) is e itself for numbers/strings and
// `(quote e)` for symbols and nested lists.
func ExpandQuote(s sexp.Sexp) sexp.Sexp {
	if s.Kind != sexp.List {
		return s
	}
	elems := make([]sexp.Sexp, len(s.Elements)+1)
	elems[0] = sexp.NewSymbol("/list", s.Loc)
	for i, e := range s.Elements {
		elems[i+1] = quoteArg(e)
	}
	return sexp.NewList(elems, s.Loc)
}

func quoteArg(e sexp.Sexp) sexp.Sexp {
	switch e.Kind {
	case sexp.Number, sexp.String:
		return e
	default: // Symbol or List: re-quote so the translator re-enters quote handling.
		return sexp.NewList([]sexp.Sexp{sexp.NewSymbol("quote", e.Loc), e}, e.Loc)
	}
}
