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

// Package runtime is the host-facing collaborator of spec §4: it owns the
// committed symbol table, drives the transactional module loader of §4.10,
// and hands out vm.Instance values configured from a Config.
package runtime

import (
	"io"
	"strings"
	"sync"

	"github.com/bullno1/lip-sub000/ast"
	"github.com/bullno1/lip-sub000/builtin"
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/compiler"
	"github.com/bullno1/lip-sub000/fs"
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/lexer"
	"github.com/bullno1/lip-sub000/sexp"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
	"github.com/bullno1/lip-sub000/vm"
)

// Runtime is the shared, thread-safe state spec §5 describes: one committed
// SymbolTable, one Config and one fs.FS, usable from many Contexts each
// running on its own goroutine.
type Runtime struct {
	Symbols *SymbolTable
	Config  *Config
	FS      fs.FS

	mu             sync.Mutex
	loadingModules map[string]bool
}

// NewRuntime builds a Runtime. A nil cfg uses DefaultConfig; a nil
// filesystem uses fs.OS. Each builtin is committed under the namespace its
// name selects, so that Lookup of that same name finds it.
func NewRuntime(cfg *Config, filesystem fs.FS) *Runtime {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if filesystem == nil {
		filesystem = fs.OS{}
	}
	rt := &Runtime{
		Symbols:        NewSymbolTable(),
		Config:         cfg,
		FS:             filesystem,
		loadingModules: make(map[string]bool),
	}
	for name, v := range builtin.All() {
		ns, key := splitName(name)
		rt.Symbols.Commit(ns, map[string]value.Value{key: v})
	}
	return rt
}

// Context is one cooperative, single-threaded user of a Runtime (spec §4):
// it compiles and runs scripts and drives module loads against the shared
// Runtime state.
type Context struct {
	rt *Runtime
}

// NewContext creates a Context bound to rt.
func (rt *Runtime) NewContext() *Context {
	return &Context{rt: rt}
}

// NewVM returns a fresh vm.Instance sized from the Context's Config, with
// any extra opts layered on top.
func (c *Context) NewVM(opts ...vm.Option) *vm.Instance {
	cfg := c.rt.Config
	base := []vm.Option{
		vm.OperandStackSize(cfg.VM.OperandStackSize),
		vm.EnvStackSize(cfg.VM.EnvStackSize),
		vm.CallStackSize(cfg.VM.CallStackSize),
	}
	return vm.New(append(base, opts...)...)
}

// Eval compiles and runs a standalone script against the Context's
// committed symbol table; its imports must already be resolvable there. It
// does not register anything under a module namespace, unlike Load.
func (c *Context) Eval(sourceName, src string) (value.Value, error) {
	fi, err := compileSource(sourceName, src)
	if err != nil {
		return value.NilValue, err
	}
	if err := Link(fi, c.rt.Symbols); err != nil {
		return value.NilValue, err
	}
	return c.NewVM().Run(fi, nil)
}

// compileSource runs the full source pipeline: lex, parse every top-level
// form, translate each to an AST node, and compile the sequence into one
// function image whose result is that of its last form.
func compileSource(sourceName, src string) (*bytecode.FunctionImage, error) {
	p := sexp.New(lexer.New(strings.NewReader(src), sourceName), nil)
	forms, err := p.ParseAll()
	if err != nil {
		return nil, err
	}
	nodes := make([]ast.Node, len(forms))
	for i, f := range forms {
		n, err := ast.Translate(f)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return compiler.CompileProgram(sourceName, nodes)
}

// Load runs the transactional module loader of spec §4.10: it searches
// Config's module search patterns for name, compiles and runs whatever it
// finds with a private "declare" binding, and on success merges every
// declared name into the committed table under name. Any failure along the
// way discards the load with no visible effect on the committed table.
func (c *Context) Load(name string) error {
	rt := c.rt

	rt.mu.Lock()
	if rt.loadingModules[name] {
		rt.mu.Unlock()
		return lerror.New(lerror.Module, token.NowhereRange, "cycle while loading module %q", name)
	}
	rt.loadingModules[name] = true
	rt.mu.Unlock()
	defer func() {
		rt.mu.Lock()
		delete(rt.loadingModules, name)
		rt.mu.Unlock()
	}()

	path, r, err := rt.openModule(name)
	if err != nil {
		return err
	}
	defer r.Close()

	src, err := io.ReadAll(r)
	if err != nil {
		return lerror.Wrap(err, lerror.IO, token.NowhereRange, "read module "+path)
	}

	fi, err := compileSource(path, string(src))
	if err != nil {
		return err
	}

	ls := newLoadState(name)
	view := &overlay{base: rt.Symbols, extra: map[string]value.Value{
		"declare": value.NewFunction(ls.declareClosure()),
	}}
	if err := Link(fi, view); err != nil {
		return err
	}

	if _, err := c.NewVM().Run(fi, nil); err != nil {
		return err
	}

	rt.Symbols.Commit(name, ls.delta)
	return nil
}

// openModule tries every search pattern against name (spec §4.10: '?'
// substitutes the module path with '.' turned into '/', '!' substitutes the
// literal module name) and returns the first one whose underlying file
// exists.
func (rt *Runtime) openModule(name string) (string, io.ReadCloser, error) {
	asPath := strings.ReplaceAll(name, ".", "/")
	var lastErr error
	for _, pattern := range rt.Config.Module.SearchPatterns {
		candidate := strings.NewReplacer("?", asPath, "!", name).Replace(pattern)
		r, err := rt.FS.BeginRead(candidate)
		if err == nil {
			return candidate, r, nil
		}
		lastErr = err
	}
	return "", nil, lerror.Wrap(lastErr, lerror.Module, token.NowhereRange, "module "+name+" not found in any search path")
}
