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
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
)

// arith implements the variadic ADD/SUB/MUL/FDIV opcodes that the
// assembler inlines a (+ ...)/(- ...)/(* ...)/(/ ...) call into (spec
// §4.6 pass 3, §4.9.1). Operands sit on the stack the same way a CALL's
// arguments do: operand[sp-i] is argument i in its natural 0-based order.
func (vm *Instance) arith(op opcode.Op, argc int, loc token.Range) error {
	if vm.sp < argc-1 {
		return vm.fail(loc, "operand stack underflow")
	}
	operands := make([]float64, argc)
	for i := 0; i < argc; i++ {
		v := vm.operand[vm.sp-i]
		if v.Kind != value.Number {
			return vm.fail(loc, "expected a number, got %s", v.Kind)
		}
		operands[i] = v.Num
	}
	vm.sp -= argc

	var result float64
	switch op {
	case opcode.ADD:
		for _, v := range operands {
			result += v
		}
	case opcode.SUB:
		switch argc {
		case 0:
			result = 0
		case 1:
			result = -operands[0]
		default:
			result = operands[0]
			for _, v := range operands[1:] {
				result -= v
			}
		}
	case opcode.MUL:
		result = 1
		for _, v := range operands {
			result *= v
		}
	case opcode.FDIV:
		switch argc {
		case 0:
			result = 1
		case 1:
			result = 1 / operands[0]
		default:
			result = operands[0]
			for _, v := range operands[1:] {
				result /= v
			}
		}
	}
	vm.push(value.NewNumber(result))
	return nil
}

// compare implements the fixed-arity EQ/NEQ/GT/LT/GTE/LTE opcodes, built
// on the generic ordering of value.Compare (spec §4.9.1).
func (vm *Instance) compare(op opcode.Op, loc token.Range) error {
	if vm.sp < 1 {
		return vm.fail(loc, "operand stack underflow")
	}
	a := vm.operand[vm.sp]
	b := vm.operand[vm.sp-1]
	vm.sp -= 2

	c := value.Compare(a, b)
	var result bool
	switch op {
	case opcode.EQ:
		result = c == 0
	case opcode.NEQ:
		result = c != 0
	case opcode.GT:
		result = c > 0
	case opcode.LT:
		result = c < 0
	case opcode.GTE:
		result = c >= 0
	case opcode.LTE:
		result = c <= 0
	}
	vm.push(value.NewBoolean(result))
	return nil
}
