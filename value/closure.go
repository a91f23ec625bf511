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

package value

import "fmt"

// NativeContext is what a native function sees of the calling VM frame
// (spec §6: get_args/get_env). The vm package implements it; value stays
// free of a dependency on vm or bytecode so both can depend on value
// instead.
type NativeContext interface {
	Args() []Value
	Env() []Value
}

// NativeFunc is the value-ABI signature of a host function: it returns the
// result value, or an error to be reported at the native call boundary.
type NativeFunc func(ctx NativeContext) (Value, error)

// Closure is {fn, debug_name?, is_native, env_len, env} (spec §3). A script
// closure's ScriptFn holds a *bytecode.FunctionImage behind an
// interface{} to avoid value<->bytecode import cycle; the vm package knows
// how to type-assert it back.
type Closure struct {
	IsNative  bool
	DebugName string
	ScriptFn  interface{}
	NativeFn  NativeFunc
	Env       []Value
}

func NewScriptClosure(fn interface{}, env []Value, debugName string) *Closure {
	return &Closure{ScriptFn: fn, Env: env, DebugName: debugName}
}

func NewNativeClosure(fn NativeFunc, env []Value, debugName string) *Closure {
	return &Closure{IsNative: true, NativeFn: fn, Env: env, DebugName: debugName}
}

func (c *Closure) String() string {
	if c.DebugName != "" {
		return fmt.Sprintf("#<function %s>", c.DebugName)
	}
	return "#<function>"
}
