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

// Package lerror defines the structured error record that every public
// entry point of lip returns on failure (spec §7): a Kind, the deepest
// known source location, a message and an optional parent ("caused by")
// error plus, for runtime errors, a Traceback.
package lerror

import (
	"fmt"

	"github.com/bullno1/lip-sub000/token"
	"github.com/pkg/errors"
)

// Kind classifies where and how an error occurred.
type Kind int

const (
	Lex Kind = iota
	Parse
	Syntax
	Link
	Runtime
	Format
	IO
	Module
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Syntax:
		return "syntax"
	case Link:
		return "link"
	case Runtime:
		return "runtime"
	case Format:
		return "format"
	case IO:
		return "io"
	case Module:
		return "module"
	default:
		return "unknown"
	}
}

// Frame is one entry of a Traceback: the script or native location a call
// was executing at.
type Frame struct {
	Filename string
	Loc      token.Range
	Function string
}

func (f Frame) String() string {
	if f.Filename == "" {
		return fmt.Sprintf("%s (native)", f.Function)
	}
	return fmt.Sprintf("%s:%s %s", f.Filename, f.Loc, f.Function)
}

// Traceback is a call-stack snapshot, top frame first.
type Traceback []Frame

func (t Traceback) String() string {
	s := ""
	for i, f := range t {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprintf("  #%d %s", i, f)
	}
	return s
}

// Error is the structured record surfaced by the public API. It wraps an
// optional parent error (compile-time "caused by" chains) and, for Runtime
// errors, a call-stack Traceback.
type Error struct {
	Kind      Kind
	Loc       token.Range
	Message   string
	Parent    error
	Traceback Traceback
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Kind, e.Loc, e.Message)
	if e.Parent != nil {
		msg += "\ncaused by: " + e.Parent.Error()
	}
	if len(e.Traceback) > 0 {
		msg += "\n" + e.Traceback.String()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Parent }

// New builds an Error with no parent.
func New(kind Kind, loc token.Range, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that chains cause as its parent, following the
// pkg/errors convention the rest of the module uses for plain causes.
func Wrap(cause error, kind Kind, loc token.Range, message string) *Error {
	return &Error{Kind: kind, Loc: loc, Message: message, Parent: errors.WithStack(cause)}
}
