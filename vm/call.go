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
	"fmt"

	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

// call implements both CALL and TAIL (spec §4.9.2-§4.9.3). The compiler
// always pushes arguments in reverse order and the callee last, so once the
// callee is popped, operand[sp-i] already holds argument i in its natural
// 0-based order for i in [0, argc) - no reversal pass is needed.
//
// finished reports that the program's outermost frame returned from inside
// this call (a tail call into a native function completes synchronously
// and, in tail position, IS that frame's return).
func (vm *Instance) call(caller *frame, argc int, loc token.Range, tail bool) (finished bool, err error) {
	if vm.sp < argc {
		return false, vm.fail(loc, "operand stack underflow in call")
	}
	calleeVal := vm.pop()
	if calleeVal.Kind != value.Function {
		return false, vm.fail(loc, "cannot call a %s", calleeVal.Kind)
	}
	closure := calleeVal.Fn

	if closure.IsNative {
		result, err := vm.invokeNative(closure, argc, loc)
		if err != nil {
			return false, err
		}
		if tail {
			vm.push(result)
			return vm.ret(), nil
		}
		vm.push(result)
		caller.pc++
		return false, nil
	}

	fn, ok := closure.ScriptFn.(*bytecode.FunctionImage)
	if !ok {
		return false, vm.fail(loc, "closure has no script body")
	}
	if tail {
		return false, vm.tailCall(caller, closure, fn, argc, loc)
	}
	return false, vm.pushCall(caller, closure, fn, argc, loc)
}

func (vm *Instance) pushCall(caller *frame, closure *value.Closure, fn *bytecode.FunctionImage, argc int, loc token.Range) error {
	if vm.fp+1 >= len(vm.frames) {
		return vm.fail(loc, "call stack overflow")
	}
	ep := vm.envTop
	total := int(fn.NumArgs) + int(fn.NumLocals)
	if ep+total > len(vm.env) {
		return vm.fail(loc, "env stack overflow")
	}
	if err := vm.placeArgsFromStack(ep, fn, argc, loc); err != nil {
		return err
	}
	bp := vm.sp + 1
	vm.envTop = ep + total
	caller.pc++

	vm.fp++
	vm.frames[vm.fp] = frame{closure: closure, fn: fn, pc: 0, ep: ep, bp: bp}
	return nil
}

// tailCall reuses the caller's env window in place instead of pushing a new
// frame, and cuts the operand stack back to the caller's bp: a chain of
// tail calls runs in bounded Go stack depth.
func (vm *Instance) tailCall(caller *frame, closure *value.Closure, fn *bytecode.FunctionImage, argc int, loc token.Range) error {
	ep := caller.ep
	total := int(fn.NumArgs) + int(fn.NumLocals)
	if ep+total > len(vm.env) {
		return vm.fail(loc, "env stack overflow")
	}
	if err := vm.placeArgsFromStack(ep, fn, argc, loc); err != nil {
		return err
	}
	vm.sp = caller.bp - 1
	vm.envTop = ep + total
	caller.closure = closure
	caller.fn = fn
	caller.pc = 0
	return nil
}

// ret pops the active frame, leaving its single result value as the new
// top of the operand stack. It reports whether the whole program just
// finished (the popped frame was the outermost one).
func (vm *Instance) ret() bool {
	fr := vm.frames[vm.fp]
	result := vm.pop()
	vm.sp = fr.bp - 1
	vm.envTop = fr.ep
	vm.fp--
	vm.push(result)
	return vm.fp < 0
}

// placeArgs binds a function's top-level call arguments (given directly,
// not via the operand stack) into its env window. Used only by Run's
// initial call.
func (vm *Instance) placeArgs(ep int, fn *bytecode.FunctionImage, args []value.Value) error {
	numArgs := int(fn.NumArgs)
	argc := len(args)
	if fn.IsVararg {
		if argc < numArgs-1 {
			return vm.fail(token.NowhereRange, "expected at least %d arguments, got %d", numArgs-1, argc)
		}
		copy(vm.env[ep:ep+numArgs-1], args[:numArgs-1])
		rest := append([]value.Value(nil), args[numArgs-1:]...)
		vm.env[ep+numArgs-1] = value.NewList(value.NewListOf(rest))
		return nil
	}
	if argc != numArgs {
		return vm.fail(token.NowhereRange, "expected %d arguments, got %d", numArgs, argc)
	}
	copy(vm.env[ep:ep+numArgs], args)
	return nil
}

// placeArgsFromStack is placeArgs' CALL/TAIL counterpart: argc operands
// already sit on the operand stack, topmost being argument 0.
func (vm *Instance) placeArgsFromStack(ep int, fn *bytecode.FunctionImage, argc int, loc token.Range) error {
	numArgs := int(fn.NumArgs)
	if fn.IsVararg {
		if argc < numArgs-1 {
			return vm.fail(loc, "expected at least %d arguments, got %d", numArgs-1, argc)
		}
		for i := 0; i < numArgs-1; i++ {
			vm.env[ep+i] = vm.operand[vm.sp-i]
		}
		restCount := argc - (numArgs - 1)
		rest := make([]value.Value, restCount)
		for j := 0; j < restCount; j++ {
			rest[j] = vm.operand[vm.sp-(numArgs-1+j)]
		}
		vm.env[ep+numArgs-1] = value.NewList(value.NewListOf(rest))
		vm.sp -= argc
		return nil
	}
	if argc != numArgs {
		return vm.fail(loc, "expected %d arguments, got %d", numArgs, argc)
	}
	for i := 0; i < numArgs; i++ {
		vm.env[ep+i] = vm.operand[vm.sp-i]
	}
	vm.sp -= argc
	return nil
}

func (vm *Instance) invokeNative(closure *value.Closure, argc int, loc token.Range) (value.Value, error) {
	if vm.sp < argc-1 {
		return value.NilValue, vm.fail(loc, "operand stack underflow in native call")
	}
	args := make([]value.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = vm.operand[vm.sp-i]
	}
	vm.sp -= argc
	result, err := closure.NativeFn(nativeContext{args: args, env: closure.Env})
	if err != nil {
		return value.NilValue, vm.fail(loc, "%s", err)
	}
	return result, nil
}

// makeClosure executes CLS: it reads the n_cap pseudo-instructions packed
// immediately after CLS in the instruction stream directly, rather than
// dispatching them through loop's normal switch, using each one's
// addressing mode (LARG/LDLV/LDCV) to fetch a capture value from the
// *caller's* frame right now.
func (vm *Instance) makeClosure(fr *frame, raw uint32) {
	const fieldMask = 0xFFF
	fnIdx := int(raw & fieldMask)
	numCaptures := int((raw >> 12) & fieldMask)

	nestedFn := fr.fn.NestedFunctions[fnIdx]
	env := make([]value.Value, numCaptures)
	for i := 0; i < numCaptures; i++ {
		instr := fr.fn.Instructions[fr.pc+1+i]
		env[i] = vm.captureSource(fr, instr)
	}
	closure := value.NewScriptClosure(nestedFn, env, nestedFn.SourceName)
	vm.push(value.NewFunction(closure))
	fr.pc += 1 + numCaptures
}

func (vm *Instance) captureSource(fr *frame, instr opcode.Instruction) value.Value {
	idx := int(instr.Operand())
	switch instr.Op() {
	case opcode.LDCV:
		return fr.closure.Env[idx]
	default: // LARG, LDLV
		return vm.env[fr.ep+idx]
	}
}

// patchPlaceholders executes RCLS: any closure now sitting in env slot i
// may have captured sibling placeholders before they had real values (the
// letrec protocol of spec §4.8); patch them with the values SET has since
// written into this frame's env.
func (vm *Instance) patchPlaceholders(fr *frame, i int) {
	v := vm.env[fr.ep+i]
	if v.Kind != value.Function {
		return
	}
	for j, captured := range v.Fn.Env {
		if captured.Kind == value.Placeholder {
			v.Fn.Env[j] = vm.env[fr.ep+int(captured.PlhI)]
		}
	}
}

func (vm *Instance) fail(loc token.Range, format string, args ...interface{}) error {
	return &lerror.Error{
		Kind:      lerror.Runtime,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
		Traceback: vm.traceback(),
	}
}

func (vm *Instance) traceback() lerror.Traceback {
	tb := make(lerror.Traceback, 0, vm.fp+1)
	for i := vm.fp; i >= 0; i-- {
		fr := vm.frames[i]
		loc := token.NowhereRange
		if fr.pc+1 < len(fr.fn.Locations) {
			loc = fr.fn.Locations[fr.pc+1]
		}
		tb = append(tb, lerror.Frame{
			Filename: fr.fn.SourceName,
			Loc:      loc,
			Function: fr.closure.String(),
		})
	}
	return tb
}
