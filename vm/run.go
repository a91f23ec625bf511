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
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
	"github.com/pkg/errors"
)

// Run executes fn with args bound to its top-level argument slots and runs
// it to completion, returning the value its body evaluates to.
//
// A malformed FunctionImage (a bad operand indexing past a pool) surfaces
// as a Go panic from the slice access that hits it; Run recovers that at the boundary and reports it as an
// ordinary runtime lerror.Error, the same way a bad pop or a type mismatch
// does.
func (vm *Instance) Run(fn *bytecode.FunctionImage, args []value.Value) (result value.Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = &lerror.Error{
				Kind:      lerror.Runtime,
				Loc:       token.NowhereRange,
				Message:   "internal error",
				Parent:    errorFromPanic(e),
				Traceback: vm.traceback(),
			}
		}
		if err != nil && vm.hook != nil {
			vm.hook.Error(vm, err)
		}
	}()

	top := value.NewScriptClosure(fn, nil, fn.SourceName)
	ep := vm.envTop
	if placeErr := vm.placeArgs(ep, fn, args); placeErr != nil {
		return value.NilValue, placeErr
	}
	vm.envTop = ep + int(fn.NumArgs) + int(fn.NumLocals)
	vm.fp++
	vm.frames[vm.fp] = frame{closure: top, fn: fn, pc: 0, ep: ep, bp: vm.sp + 1}

	vm.insCount = 0
	if loopErr := vm.loop(); loopErr != nil {
		return value.NilValue, loopErr
	}
	return vm.pop(), nil
}

func errorFromPanic(e interface{}) error {
	if err, ok := e.(error); ok {
		return errors.WithStack(err)
	}
	return errors.Errorf("%v", e)
}

// loop is the main dispatch: one frame register set (fr) per active script
// call, opcode.Op switched straight to its handler, per spec §4.9's
// per-opcode contract table.
func (vm *Instance) loop() error {
	for {
		fr := &vm.frames[vm.fp]
		instr := fr.fn.Instructions[fr.pc]
		loc := fr.fn.Locations[fr.pc+1]

		if vm.hook != nil {
			vm.hook.Step(vm)
		}
		vm.insCount++

		switch instr.Op() {
		case opcode.NOP:
			fr.pc++

		case opcode.POP:
			vm.sp -= int(instr.Operand())
			fr.pc++

		case opcode.NIL:
			vm.push(value.NilValue)
			fr.pc++

		case opcode.LDK:
			vm.push(fr.fn.Constants[instr.Operand()])
			fr.pc++

		case opcode.LDI:
			vm.push(value.NewNumber(float64(instr.Operand())))
			fr.pc++

		case opcode.LDB:
			vm.push(value.NewBoolean(instr.Operand() != 0))
			fr.pc++

		case opcode.PLHR:
			vm.env[fr.ep+int(instr.Operand())] = value.NewPlaceholder(uint32(instr.Operand()))
			fr.pc++

		case opcode.LARG, opcode.LDLV:
			vm.push(vm.env[fr.ep+int(instr.Operand())])
			fr.pc++

		case opcode.LDCV:
			vm.push(fr.closure.Env[instr.Operand()])
			fr.pc++

		case opcode.IMP:
			vm.push(fr.fn.Imports[instr.Operand()].ResolvedValue)
			fr.pc++

		case opcode.SET:
			vm.env[fr.ep+int(instr.Operand())] = vm.pop()
			fr.pc++

		case opcode.JMP:
			fr.pc = int(instr.Operand())

		case opcode.JOF:
			if vm.pop().IsTruthy() {
				fr.pc++
			} else {
				fr.pc = int(instr.Operand())
			}

		case opcode.CALL:
			finished, err := vm.call(fr, int(instr.Operand()), loc, false)
			if err != nil {
				return err
			}
			if finished {
				return nil
			}

		case opcode.TAIL:
			finished, err := vm.call(fr, int(instr.Operand()), loc, true)
			if err != nil {
				return err
			}
			if finished {
				return nil
			}

		case opcode.RET:
			if vm.ret() {
				return nil
			}

		case opcode.CLS:
			vm.makeClosure(fr, instr.RawOperand())

		case opcode.RCLS:
			vm.patchPlaceholders(fr, int(instr.Operand()))
			fr.pc++

		case opcode.ADD, opcode.SUB, opcode.MUL, opcode.FDIV:
			if err := vm.arith(instr.Op(), int(instr.Operand()), loc); err != nil {
				return err
			}
			fr.pc++

		case opcode.NOT:
			v := vm.pop()
			vm.push(value.NewBoolean(!v.IsTruthy()))
			fr.pc++

		case opcode.CMP:
			a := vm.pop()
			b := vm.pop()
			vm.push(value.NewNumber(float64(value.Compare(a, b))))
			fr.pc++

		case opcode.EQ, opcode.NEQ, opcode.GT, opcode.LT, opcode.GTE, opcode.LTE:
			if err := vm.compare(instr.Op(), loc); err != nil {
				return err
			}
			fr.pc++

		default:
			return vm.fail(loc, "unhandled opcode %s", instr.Op())
		}
	}
}

