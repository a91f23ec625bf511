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

package sexp

import (
	"io"
	"strconv"

	"github.com/bullno1/lip-sub000/arena"
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/lexer"
	"github.com/bullno1/lip-sub000/token"
)

var readerWord = map[token.Kind]string{
	token.QUOTE:            "quote",
	token.QUASIQUOTE:       "quasiquote",
	token.UNQUOTE:          "unquote",
	token.UNQUOTE_SPLICING: "unquote-splicing",
}

// Parser turns a token stream into a tree of Sexp nodes. All List element
// slices it produces are carved out of a per-parse arena, so a single
// Reset releases the whole tree at once.
type Parser struct {
	lex   *lexer.Lexer
	arena *arena.Allocator[Sexp]
}

// New creates a Parser reading from l. a may be nil, in which case the
// parser allocates its own throwaway arena.
func New(l *lexer.Lexer, a *arena.Allocator[Sexp]) *Parser {
	if a == nil {
		a = arena.New[Sexp](256)
	}
	return &Parser{lex: l, arena: a}
}

// Parse reads and returns exactly one top-level Sexp. It returns io.EOF
// once the stream is exhausted with no more forms.
func (p *Parser) Parse() (Sexp, error) {
	tok, err := p.lex.Next()
	if err != nil {
		if err == io.EOF {
			return Sexp{}, io.EOF
		}
		return Sexp{}, wrapLexErr(err)
	}
	return p.parseFrom(tok)
}

// ParseAll reads every top-level form until EOF.
func (p *Parser) ParseAll() ([]Sexp, error) {
	var forms []Sexp
	for {
		s, err := p.Parse()
		if err == io.EOF {
			return forms, nil
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, s)
	}
}

func wrapLexErr(err error) *lerror.Error {
	if le, ok := err.(*lexer.Error); ok {
		return lerror.Wrap(le, lerror.Parse, le.Loc, "PARSE_LEX_ERROR")
	}
	return lerror.New(lerror.Parse, token.NowhereRange, "PARSE_LEX_ERROR: %v", err)
}

func (p *Parser) parseFrom(tok token.Token) (Sexp, error) {
	switch tok.Kind {
	case token.LPAREN:
		return p.parseList(tok)
	case token.RPAREN:
		return Sexp{}, lerror.New(lerror.Parse, tok.Loc, "PARSE_UNEXPECTED_TOKEN: unexpected ')'")
	case token.SYMBOL:
		return NewSymbol(tok.Lexeme, tok.Loc), nil
	case token.STRING:
		return NewString(tok.Lexeme, tok.Loc), nil
	case token.NUMBER:
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return Sexp{}, lerror.New(lerror.Parse, tok.Loc, "invalid number literal %q", tok.Lexeme)
		}
		return NewNumber(f, tok.Loc), nil
	case token.QUOTE, token.QUASIQUOTE, token.UNQUOTE, token.UNQUOTE_SPLICING:
		return p.parseReaderMacro(tok)
	default:
		return Sexp{}, lerror.New(lerror.Parse, tok.Loc, "PARSE_UNEXPECTED_TOKEN: %v", tok.Kind)
	}
}

func (p *Parser) parseReaderMacro(tok token.Token) (Sexp, error) {
	next, err := p.lex.Next()
	if err != nil {
		if err == io.EOF {
			return Sexp{}, lerror.New(lerror.Parse, tok.Loc, "PARSE_UNEXPECTED_TOKEN: %s not followed by a form", readerWord[tok.Kind])
		}
		return Sexp{}, wrapLexErr(err)
	}
	arg, err := p.parseFrom(next)
	if err != nil {
		return Sexp{}, err
	}
	loc := token.Span(tok.Loc, arg.Loc)
	elems := p.arena.Alloc(2)
	elems[0] = NewSymbol(readerWord[tok.Kind], tok.Loc)
	elems[1] = arg
	return NewList(elems, loc), nil
}

func (p *Parser) parseList(open token.Token) (Sexp, error) {
	var elems []Sexp
	for {
		tok, err := p.lex.Next()
		if err != nil {
			if err == io.EOF {
				return Sexp{}, lerror.New(lerror.Parse, open.Loc, "PARSE_UNTERMINATED_LIST")
			}
			return Sexp{}, wrapLexErr(err)
		}
		if tok.Kind == token.RPAREN {
			loc := token.Span(open.Loc, tok.Loc)
			dst := p.arena.Alloc(len(elems))
			copy(dst, elems)
			return NewList(dst, loc), nil
		}
		elem, err := p.parseFrom(tok)
		if err != nil {
			return Sexp{}, err
		}
		elems = append(elems, elem)
	}
}
