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

package ast

import (
	"strings"

	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/preprocess"
	"github.com/bullno1/lip-sub000/sexp"
	"github.com/bullno1/lip-sub000/token"
)

// Translate walks a preprocessed S-expression tree into an AST, dispatching
// the special forms of spec §4.5 (if/let/letrec/fn/do/quote/quasiquote/
// declare) and falling back to Application for everything else.
func Translate(s sexp.Sexp) (Node, error) {
	return translate(s, 0)
}

// translate carries declareDepth, the nesting count of enclosing `declare`
// forms, so a `declare` found while translating a declared function's own
// body (declareDepth > 0) can be rejected at translation time (spec §4.10,
// §8: "Cannot use `declare` inside a `declare`-d function").
func translate(s sexp.Sexp, declareDepth int) (Node, error) {
	switch s.Kind {
	case sexp.Number:
		return NewNumber(s.Num, s.Loc), nil
	case sexp.String:
		decoded, err := DecodeString(s.Str, stringContentLoc(s.Loc))
		if err != nil {
			return Node{}, err
		}
		return NewString(decoded, s.Loc), nil
	case sexp.Symbol:
		return NewIdentifier(s.Str, s.Loc), nil
	}

	if len(s.Elements) == 0 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "the empty list is not a valid expression")
	}

	if head, ok := s.Head(); ok && head.Kind == sexp.Symbol {
		switch head.Str {
		case "if":
			return translateIf(s, declareDepth)
		case "let":
			return translateLet(s, Let, declareDepth)
		case "letrec":
			return translateLet(s, LetRec, declareDepth)
		case "fn":
			return translateLambda(s, declareDepth)
		case "do":
			return translateDo(s, declareDepth)
		case "quote":
			return translateQuote(s)
		case "quasiquote":
			return translateQuasiquote(s, declareDepth)
		case "unquote", "unquote-splicing":
			return Node{}, lerror.New(lerror.Syntax, s.Loc, "%s is only valid inside quasiquote", head.Str)
		case "declare":
			return translateDeclare(s, declareDepth)
		}
	}

	return translateApplication(s, declareDepth)
}

// stringContentLoc returns the location of the first character inside the
// quotes, one column past the opening quote that starts r.
func stringContentLoc(r token.Range) token.Loc {
	return token.Loc{Line: r.Start.Line, Column: r.Start.Column + 1}
}

func translateIf(s sexp.Sexp, declareDepth int) (Node, error) {
	args := s.Elements[1:]
	if len(args) != 2 && len(args) != 3 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "if expects 2 or 3 arguments, got %d", len(args))
	}
	cond, err := translate(args[0], declareDepth)
	if err != nil {
		return Node{}, err
	}
	then, err := translate(args[1], declareDepth)
	if err != nil {
		return Node{}, err
	}
	node := Node{Kind: If, Loc: s.Loc, Cond: &cond, Then: &then}
	if len(args) == 3 {
		els, err := translate(args[2], declareDepth)
		if err != nil {
			return Node{}, err
		}
		node.Else = &els
	}
	return node, nil
}

func translateLet(s sexp.Sexp, kind Kind, declareDepth int) (Node, error) {
	name := "let"
	if kind == LetRec {
		name = "letrec"
	}
	if len(s.Elements) < 2 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "%s expects a binding list", name)
	}
	bindingList := s.Elements[1]
	if bindingList.Kind != sexp.List {
		return Node{}, lerror.New(lerror.Syntax, bindingList.Loc, "%s binding list must be a list", name)
	}

	seen := make(map[string]bool, len(bindingList.Elements))
	bindings := make([]Binding, 0, len(bindingList.Elements))
	for _, b := range bindingList.Elements {
		if b.Kind != sexp.List || len(b.Elements) != 2 {
			return Node{}, lerror.New(lerror.Syntax, b.Loc, "%s binding must be (name expr)", name)
		}
		nameSexp := b.Elements[0]
		if nameSexp.Kind != sexp.Symbol {
			return Node{}, lerror.New(lerror.Syntax, nameSexp.Loc, "%s binding name must be a symbol", name)
		}
		if seen[nameSexp.Str] {
			return Node{}, lerror.New(lerror.Syntax, nameSexp.Loc, "duplicate %s binding name %q", name, nameSexp.Str)
		}
		seen[nameSexp.Str] = true

		expr, err := translate(b.Elements[1], declareDepth)
		if err != nil {
			return Node{}, err
		}
		bindings = append(bindings, Binding{Name: nameSexp.Str, Expr: expr, Loc: b.Loc})
	}

	body, err := translateBody(s.Elements[2:], declareDepth)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: kind, Loc: s.Loc, Bindings: bindings, Body: body}, nil
}

// parseParamList validates a fn/declare parameter list: plain symbols, with
// an optional final "&name" vararg token.
func parseParamList(params []sexp.Sexp) ([]string, bool, error) {
	names := make([]string, 0, len(params))
	vararg := false
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.Kind != sexp.Symbol {
			return nil, false, lerror.New(lerror.Syntax, p.Loc, "parameter must be a symbol")
		}
		name := p.Str
		if strings.HasPrefix(name, "&") {
			if i != len(params)-1 {
				return nil, false, lerror.New(lerror.Syntax, p.Loc, "vararg parameter must be last")
			}
			name = name[1:]
			if name == "" {
				return nil, false, lerror.New(lerror.Syntax, p.Loc, "bare & is not a valid vararg parameter")
			}
			vararg = true
		}
		if seen[name] {
			return nil, false, lerror.New(lerror.Syntax, p.Loc, "duplicate parameter name %q", name)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, vararg, nil
}

func translateLambda(s sexp.Sexp, declareDepth int) (Node, error) {
	if len(s.Elements) < 2 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "fn expects a parameter list")
	}
	paramList := s.Elements[1]
	if paramList.Kind != sexp.List {
		return Node{}, lerror.New(lerror.Syntax, paramList.Loc, "fn parameter list must be a list")
	}

	params, vararg, err := parseParamList(paramList.Elements)
	if err != nil {
		return Node{}, err
	}

	body, err := translateBody(s.Elements[2:], declareDepth)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: Lambda, Loc: s.Loc, Params: params, IsVararg: vararg, Body: body}, nil
}

// translateDeclare handles spec §4.10's top-level declaration form:
// (declare (name param...) body...) registers a function named name into
// the loading module's namespace. declareDepth > 0 means this declare was
// reached while already translating a declared function's own body, which
// spec §4.10/§8 forbids.
func translateDeclare(s sexp.Sexp, declareDepth int) (Node, error) {
	if declareDepth > 0 {
		return Node{}, lerror.New(lerror.Module, s.Loc, "Cannot use `declare` inside a `declare`-d function")
	}
	if len(s.Elements) < 2 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "declare expects a (name param...) signature")
	}
	sig := s.Elements[1]
	if sig.Kind != sexp.List || len(sig.Elements) == 0 {
		return Node{}, lerror.New(lerror.Syntax, sig.Loc, "declare signature must be (name param...)")
	}
	nameSexp := sig.Elements[0]
	if nameSexp.Kind != sexp.Symbol {
		return Node{}, lerror.New(lerror.Syntax, nameSexp.Loc, "declare's name must be a symbol")
	}

	params, vararg, err := parseParamList(sig.Elements[1:])
	if err != nil {
		return Node{}, err
	}

	body, err := translateBody(s.Elements[2:], declareDepth+1)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: Declare, Loc: s.Loc, Name: nameSexp.Str, Params: params, IsVararg: vararg, Body: body}, nil
}

func translateDo(s sexp.Sexp, declareDepth int) (Node, error) {
	body, err := translateBody(s.Elements[1:], declareDepth)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: Do, Loc: s.Loc, Body: body}, nil
}

func translateBody(exprs []sexp.Sexp, declareDepth int) ([]Node, error) {
	body := make([]Node, len(exprs))
	for i, e := range exprs {
		n, err := translate(e, declareDepth)
		if err != nil {
			return nil, err
		}
		body[i] = n
	}
	return body, nil
}

func translateApplication(s sexp.Sexp, declareDepth int) (Node, error) {
	fn, err := translate(s.Elements[0], declareDepth)
	if err != nil {
		return Node{}, err
	}
	args, err := translateBody(s.Elements[1:], declareDepth)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: Application, Loc: s.Loc, Fn: &fn, Args: args}, nil
}

// translateQuote interprets the result of one quote-expansion step: a
// returned Number/String becomes its literal node, a returned Symbol
// becomes a Symbol literal node, and a returned List is re-translated as an
// Application (/list ...), naturally re-dispatching any nested
// (quote x) sub-forms through Translate.
func translateQuote(s sexp.Sexp) (Node, error) {
	if len(s.Elements) != 2 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "quote expects exactly 1 argument")
	}
	return translateQuoted(preprocess.ExpandQuote(s.Elements[1]))
}

func translateQuoted(s sexp.Sexp) (Node, error) {
	switch s.Kind {
	case sexp.Number:
		return NewNumber(s.Num, s.Loc), nil
	case sexp.String:
		decoded, err := DecodeString(s.Str, stringContentLoc(s.Loc))
		if err != nil {
			return Node{}, err
		}
		return NewString(decoded, s.Loc), nil
	case sexp.Symbol:
		return NewSymbol(s.Str, s.Loc), nil
	default: // List: (/list ...) or (quote x) produced by ExpandQuote's quoteArg.
		if head, ok := s.Head(); ok && head.IsSymbol("quote") {
			return translateQuote(s)
		}
		return translateApplication(s, 0)
	}
}

// translateQuasiquote implements `quasiquote` expansion (spec §4.4) by
// walking the argument directly over Node construction rather than through
// an S-expression-level preprocess pass: an (unquote E) or spliced
// (unquote-splicing E) escape must fully re-enter translate so special
// forms inside E still dispatch correctly, and an escape's result keeps its
// identity as "a live sub-expression" throughout, instead of being spliced
// back into a plain S-expression tree where it would become indistinguishable
// from a quoted literal symbol of the same shape. Atoms/symbols not inside
// an escape behave like ExpandQuote (literal). A list headed by `unquote`
// returns its argument translated in full. Otherwise the list becomes
// `(list/concat c(e1) ... c(en))`, where c(e) is e's unquote-splicing
// argument translated in full if e is `(unquote-splicing E)`, and
// `(/list quasiquote(e))` otherwise (recursing so nested unquotes at any
// depth resolve correctly).
func translateQuasiquote(s sexp.Sexp, declareDepth int) (Node, error) {
	if len(s.Elements) != 2 {
		return Node{}, lerror.New(lerror.Syntax, s.Loc, "quasiquote expects exactly 1 argument")
	}
	return translateQuasiquoted(s.Elements[1], declareDepth)
}

func translateQuasiquoted(s sexp.Sexp, declareDepth int) (Node, error) {
	switch s.Kind {
	case sexp.Number:
		return NewNumber(s.Num, s.Loc), nil
	case sexp.String:
		decoded, err := DecodeString(s.Str, stringContentLoc(s.Loc))
		if err != nil {
			return Node{}, err
		}
		return NewString(decoded, s.Loc), nil
	case sexp.Symbol:
		return NewSymbol(s.Str, s.Loc), nil
	}

	if head, ok := s.Head(); ok && head.Kind == sexp.Symbol {
		switch head.Str {
		case "unquote":
			if len(s.Elements) != 2 {
				return Node{}, lerror.New(lerror.Syntax, s.Loc, "unquote expects exactly 1 argument")
			}
			return translate(s.Elements[1], declareDepth)
		case "unquote-splicing":
			return Node{}, lerror.New(lerror.Syntax, s.Loc, "unquote-splicing is only valid as a list element inside quasiquote")
		}
	}

	args := make([]Node, 0, len(s.Elements))
	for _, e := range s.Elements {
		if h, ok := e.Head(); ok && h.IsSymbol("unquote-splicing") {
			if len(e.Elements) != 2 {
				return Node{}, lerror.New(lerror.Syntax, e.Loc, "unquote-splicing expects exactly 1 argument")
			}
			spliced, err := translate(e.Elements[1], declareDepth)
			if err != nil {
				return Node{}, err
			}
			args = append(args, spliced)
			continue
		}
		inner, err := translateQuasiquoted(e, declareDepth)
		if err != nil {
			return Node{}, err
		}
		args = append(args, Node{
			Kind: Application,
			Loc:  e.Loc,
			Fn:   nodePtr(NewIdentifier("/list", e.Loc)),
			Args: []Node{inner},
		})
	}
	return Node{Kind: Application, Loc: s.Loc, Fn: nodePtr(NewIdentifier("list/concat", s.Loc)), Args: args}, nil
}

func nodePtr(n Node) *Node { return &n }
