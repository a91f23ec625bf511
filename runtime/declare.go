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

package runtime

import (
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

// loadState is the private bookkeeping of a single module load: the delta
// of names its top-level declare forms register, staged until the whole
// load succeeds (spec §4.10). A declare nested inside another declare's
// body is rejected by ast.Translate before compilation ever reaches here
// (spec §4.10, §8), so loadState itself needs no reentrancy guard.
type loadState struct {
	name  string
	delta map[string]value.Value
}

func newLoadState(name string) *loadState {
	return &loadState{name: name, delta: make(map[string]value.Value)}
}

// declareClosure is the native function compiler.compileDeclare's emitted
// code calls as "declare": declare(name, fn) registers fn under name in the
// module's own namespace, visible once the load commits.
func (ls *loadState) declareClosure() *value.Closure {
	return value.NewNativeClosure(func(ctx value.NativeContext) (value.Value, error) {
		args := ctx.Args()
		if len(args) != 2 {
			return value.NilValue, lerror.New(lerror.Module, token.NowhereRange, "declare expects (name fn)")
		}
		name, fn := args[0], args[1]
		if name.Kind != value.String && name.Kind != value.Symbol {
			return value.NilValue, lerror.New(lerror.Module, token.NowhereRange, "declare's name must be a string or symbol, got %s", name.Kind)
		}
		if fn.Kind != value.Function {
			return value.NilValue, lerror.New(lerror.Module, token.NowhereRange, "declare's value must be a function, got %s", fn.Kind)
		}
		ls.delta[name.Str] = fn
		return value.NilValue, nil
	}, nil, "declare")
}

// overlay resolves a loading module's own "declare" name on top of the
// committed table. A module's top-level forms compile into a single
// function image (compiler.CompileProgram), so a later top-level form
// referencing a name an earlier one just declared is a forward reference
// the loader does not support: declared names only become visible to
// import resolution once the whole load commits.
type overlay struct {
	base  Resolver
	extra map[string]value.Value
}

func (o *overlay) Lookup(name string) (value.Value, bool) {
	if v, ok := o.extra[name]; ok {
		return v, true
	}
	return o.base.Lookup(name)
}
