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

// Package lexer turns a byte stream into a token stream (spec §4.2). It
// never reads ahead past what it needs to decide a token's end, so it
// composes with any io.Reader, including ones that block for more input (a
// REPL's stdin).
package lexer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bullno1/lip-sub000/token"
)

// separators terminate a symbol or number token.
func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '(', ')', ';', '"', '\'', '`', ',':
		return true
	default:
		return false
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Error reports a lexical error (bad string or bad number literal).
type Error struct {
	Loc token.Range
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Loc, e.Msg) }

// Lexer produces tokens on demand from an underlying byte stream.
type Lexer struct {
	r         *bufio.Reader
	loc       token.Loc
	pending   byte
	hasPend   bool
	atEOF     bool
	name      string
	lastError error
}

// New creates a Lexer reading from r. name is used only to decorate error
// messages (typically the source file name).
func New(r io.Reader, name string) *Lexer {
	return &Lexer{r: bufio.NewReader(r), loc: token.Loc{Line: 1, Column: 1}, name: name}
}

func (l *Lexer) readByte() (byte, bool) {
	if l.hasPend {
		l.hasPend = false
		return l.pending, true
	}
	b, err := l.r.ReadByte()
	if err != nil {
		l.atEOF = true
		return 0, false
	}
	return b, true
}

func (l *Lexer) unread(b byte) {
	l.pending = b
	l.hasPend = true
}

// advance updates the line/column tracker for one consumed byte, handling
// CR, LF and CR-LF as a single line break each.
func (l *Lexer) advance(b byte) {
	switch b {
	case '\n':
		l.loc.Line++
		l.loc.Column = 1
	case '\r':
		nb, ok := l.readByte()
		if ok && nb != '\n' {
			l.unread(nb)
		}
		l.loc.Line++
		l.loc.Column = 1
	default:
		l.loc.Column++
	}
}

// Next returns the next token, io.EOF once the stream is exhausted, or a
// *Error for a malformed number or string.
func (l *Lexer) Next() (token.Token, error) {
	for {
		b, ok := l.readByte()
		if !ok {
			return token.Token{}, io.EOF
		}
		if isSpace(b) {
			l.advance(b)
			continue
		}
		if b == ';' {
			l.advance(b)
			for {
				nb, ok := l.readByte()
				if !ok {
					return token.Token{}, io.EOF
				}
				if nb == '\n' || nb == '\r' {
					l.unread(nb)
					break
				}
				l.advance(nb)
			}
			continue
		}
		start := l.loc
		switch b {
		case '(':
			l.advance(b)
			return token.Token{Kind: token.LPAREN, Lexeme: "(", Loc: token.Range{Start: start, End: l.loc}}, nil
		case ')':
			l.advance(b)
			return token.Token{Kind: token.RPAREN, Lexeme: ")", Loc: token.Range{Start: start, End: l.loc}}, nil
		case '\'':
			l.advance(b)
			return token.Token{Kind: token.QUOTE, Lexeme: "'", Loc: token.Range{Start: start, End: l.loc}}, nil
		case '`':
			l.advance(b)
			return token.Token{Kind: token.QUASIQUOTE, Lexeme: "`", Loc: token.Range{Start: start, End: l.loc}}, nil
		case ',':
			l.advance(b)
			nb, ok := l.readByte()
			if ok && nb == '@' {
				l.advance(nb)
				return token.Token{Kind: token.UNQUOTE_SPLICING, Lexeme: ",@", Loc: token.Range{Start: start, End: l.loc}}, nil
			}
			if ok {
				l.unread(nb)
			}
			return token.Token{Kind: token.UNQUOTE, Lexeme: ",", Loc: token.Range{Start: start, End: l.loc}}, nil
		case '"':
			return l.lexString(start)
		default:
			return l.lexAtom(b, start)
		}
	}
}

func (l *Lexer) lexString(start token.Loc) (token.Token, error) {
	l.advance('"')
	var buf []byte
	for {
		b, ok := l.readByte()
		if !ok {
			return token.Token{}, &Error{Loc: token.Range{Start: start, End: l.loc}, Msg: "unterminated string"}
		}
		if b == '"' {
			l.advance(b)
			return token.Token{Kind: token.STRING, Lexeme: string(buf), Loc: token.Range{Start: start, End: l.loc}}, nil
		}
		if b == '\n' || b == '\r' {
			return token.Token{}, &Error{Loc: token.Range{Start: start, End: l.loc}, Msg: "newline inside string literal"}
		}
		if b == '\\' {
			buf = append(buf, b)
			l.advance(b)
			nb, ok := l.readByte()
			if !ok {
				return token.Token{}, &Error{Loc: token.Range{Start: start, End: l.loc}, Msg: "unterminated string"}
			}
			buf = append(buf, nb)
			l.advance(nb)
			continue
		}
		buf = append(buf, b)
		l.advance(b)
	}
}

// lexAtom reads a whole symbol/number atom up to the next separator, then
// classifies it: an optional '-' followed by digits with at most one '.'
// (and at least one digit) is a NUMBER, a bare "-" or anything not starting
// with '-' or a digit is a SYMBOL, and anything else that starts with '-'
// or a digit is LEX_BAD_NUMBER.
func (l *Lexer) lexAtom(first byte, start token.Loc) (token.Token, error) {
	buf := []byte{first}
	l.advance(first)
	for {
		b, ok := l.readByte()
		if !ok || isSeparator(b) {
			if ok {
				l.unread(b)
			}
			break
		}
		buf = append(buf, b)
		l.advance(b)
	}
	loc := token.Range{Start: start, End: l.loc}
	lexeme := string(buf)

	looksNumeric := buf[0] == '-' || (buf[0] >= '0' && buf[0] <= '9')
	if !looksNumeric {
		return token.Token{Kind: token.SYMBOL, Lexeme: lexeme, Loc: loc}, nil
	}
	if lexeme == "-" {
		return token.Token{Kind: token.SYMBOL, Lexeme: lexeme, Loc: loc}, nil
	}

	digits := buf
	if digits[0] == '-' {
		digits = digits[1:]
	}
	dotCount := 0
	sawDigit := false
	valid := len(digits) > 0
	for _, c := range digits {
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.':
			dotCount++
		default:
			valid = false
		}
	}
	if dotCount > 1 || !sawDigit {
		valid = false
	}
	if !valid {
		return token.Token{}, &Error{Loc: loc, Msg: fmt.Sprintf("malformed number literal %q", lexeme)}
	}
	return token.Token{Kind: token.NUMBER, Lexeme: lexeme, Loc: loc}, nil
}
