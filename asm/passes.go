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

package asm

import (
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
)

// eliminateDeadLoads drops [NIL; POP 1] pairs, except when the POP 1 would
// be the function's last instruction (spec §9's open question: the REPL
// needs a value left on the operand stack for the empty program).
func eliminateDeadLoads(in []taggedInstr) []taggedInstr {
	out := make([]taggedInstr, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i].Op == opcode.NIL && i+1 < len(in) &&
			in[i+1].Op == opcode.POP && in[i+1].Operand == 1 &&
			i+1 != len(in)-1 {
			i++ // also skip the POP 1
			continue
		}
		out = append(out, in[i])
	}
	return out
}

// foldJumpToReturn rewrites JMP L into RET when the instruction
// immediately after LABEL L is RET.
func foldJumpToReturn(in []taggedInstr) []taggedInstr {
	labelPos := make(map[int32]int, len(in))
	for i, ins := range in {
		if ins.Op == opcode.LABEL {
			labelPos[ins.Operand] = i
		}
	}
	out := make([]taggedInstr, len(in))
	copy(out, in)
	for i, ins := range out {
		if ins.Op != opcode.JMP {
			continue
		}
		pos, ok := labelPos[ins.Operand]
		if ok && pos+1 < len(out) && out[pos+1].Op == opcode.RET {
			out[i] = taggedInstr{Op: opcode.RET, Loc: ins.Loc}
		}
	}
	return out
}

// inlinePrimitives collapses [IMP i; CALL n] into the single
// arithmetic/comparison opcode when imports[i] names a known primitive.
func inlinePrimitives(in []taggedInstr, imports []bytecode.Import) []taggedInstr {
	out := make([]taggedInstr, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i].Op == opcode.IMP && i+1 < len(in) && in[i+1].Op == opcode.CALL {
			idx := in[i].Operand
			if idx >= 0 && int(idx) < len(imports) {
				if op, isPrim := opcode.Primitive[imports[idx].Name]; isPrim {
					out = append(out, taggedInstr{Op: op, Operand: in[i+1].Operand, Loc: in[i+1].Loc})
					i++
					continue
				}
			}
		}
		out = append(out, in[i])
	}
	return out
}

// optimizeTailCalls rewrites a CALL in tail position (immediately followed
// by RET, possibly through a LABEL) into TAIL.
func optimizeTailCalls(in []taggedInstr) []taggedInstr {
	out := make([]taggedInstr, 0, len(in))
	for i := 0; i < len(in); i++ {
		if in[i].Op != opcode.CALL {
			out = append(out, in[i])
			continue
		}
		// [CALL n; LABEL L; RET] -> [TAIL n; LABEL L; RET]
		if i+2 < len(in) && in[i+1].Op == opcode.LABEL && in[i+2].Op == opcode.RET {
			out = append(out, taggedInstr{Op: opcode.TAIL, Operand: in[i].Operand, Loc: in[i].Loc})
			continue
		}
		// [CALL n; RET] -> [TAIL n]
		if i+1 < len(in) && in[i+1].Op == opcode.RET {
			out = append(out, taggedInstr{Op: opcode.TAIL, Operand: in[i].Operand, Loc: in[i].Loc})
			i++ // drop the RET
			continue
		}
		out = append(out, in[i])
	}
	return out
}

// resolveLabels removes LABEL pseudo-instructions, computing each label's
// final address, and rewrites JMP/JOF operands from label ids to those
// addresses. It returns the final instruction list and its location table
// (locations[0] is wholeRange; locations[i+1] is instruction i's range).
func resolveLabels(in []taggedInstr, wholeRange token.Range) ([]opcode.Instruction, []token.Range) {
	addr := make(map[int32]int32)
	next := int32(0)
	for _, ins := range in {
		if ins.Op == opcode.LABEL {
			addr[ins.Operand] = next
			continue
		}
		next++
	}

	instrs := make([]opcode.Instruction, 0, next)
	locations := make([]token.Range, 0, next+1)
	locations = append(locations, wholeRange)
	for _, ins := range in {
		if ins.Op == opcode.LABEL {
			continue
		}
		operand := ins.Operand
		if ins.Op == opcode.JMP || ins.Op == opcode.JOF {
			operand = addr[ins.Operand]
		}
		instrs = append(instrs, opcode.Encode(ins.Op, operand))
		locations = append(locations, ins.Loc)
	}
	return instrs, locations
}
