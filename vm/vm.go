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

package vm

import (
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/value"
)

const (
	defaultOperandStackSize = 4096
	defaultEnvStackSize     = 4096
	defaultCallStackSize    = 1024
)

// frame is one in-progress script call (spec §4.9's StackFrame).
type frame struct {
	closure *value.Closure
	fn      *bytecode.FunctionImage
	pc      int
	ep      int // base of this frame's env window
	bp      int // operand stack height at frame entry
}

// Hook observes VM execution read-only (spec §4.9.4).
type Hook interface {
	// Step is called before the instruction at the current pc executes.
	Step(vm *Instance)
	// Error is called once, after Run fails, with the error that will be
	// returned.
	Error(vm *Instance, err error)
}

// Option configures an Instance at construction.
type Option func(*Instance)

// OperandStackSize sets the capacity of the operand stack.
func OperandStackSize(n int) Option {
	return func(vm *Instance) { vm.operand = make([]value.Value, n) }
}

// EnvStackSize sets the capacity of the env stack.
func EnvStackSize(n int) Option {
	return func(vm *Instance) { vm.env = make([]value.Value, n) }
}

// CallStackSize sets the maximum number of nested script calls.
func CallStackSize(n int) Option {
	return func(vm *Instance) { vm.frames = make([]frame, n) }
}

// WithHook attaches a Hook to the instance.
func WithHook(h Hook) Option {
	return func(vm *Instance) { vm.hook = h }
}

// Instance is one virtual machine: its three stacks and whatever hook is
// watching them. Instances are not safe for concurrent use; each
// runtime.Context/goroutine pair owns its own.
type Instance struct {
	operand []value.Value
	sp      int // index of the top operand, -1 when empty

	env    []value.Value
	envTop int

	frames []frame
	fp     int // index of the active frame, -1 when none

	hook Hook

	insCount int64
}

// New creates an Instance with default stack sizes, as overridden by opts.
func New(opts ...Option) *Instance {
	vm := &Instance{sp: -1, fp: -1}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.operand == nil {
		vm.operand = make([]value.Value, defaultOperandStackSize)
	}
	if vm.env == nil {
		vm.env = make([]value.Value, defaultEnvStackSize)
	}
	if vm.frames == nil {
		vm.frames = make([]frame, defaultCallStackSize)
	}
	return vm
}

// InstructionCount returns the number of instructions executed by the most
// recent call to Run.
func (vm *Instance) InstructionCount() int64 { return vm.insCount }

// Operand returns the live operand stack, bottom first. Mutating a slot
// through the returned slice affects the instance; reslicing does not.
func (vm *Instance) Operand() []value.Value { return vm.operand[:vm.sp+1] }

func (vm *Instance) push(v value.Value) {
	vm.sp++
	vm.operand[vm.sp] = v
}

func (vm *Instance) pop() value.Value {
	v := vm.operand[vm.sp]
	vm.sp--
	return v
}

func (vm *Instance) peek() value.Value {
	return vm.operand[vm.sp]
}

// nativeContext adapts one native CALL into value.NativeContext, per the
// binder's get_args/get_env (spec §6).
type nativeContext struct {
	args []value.Value
	env  []value.Value
}

func (c nativeContext) Args() []value.Value { return c.args }
func (c nativeContext) Env() []value.Value  { return c.env }
