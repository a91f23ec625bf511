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

// Package asm assembles a sequence of tagged instructions, a label table,
// and dedup'd constant/import pools into an immutable *bytecode.FunctionImage
// (spec §4.6).
//
// A caller emits instructions with Add, obtains label ids with NewLabel,
// marks a label's position with Label, interns constants and imports with
// the Alloc* methods, and finally calls End to run the five required
// lowering passes, in order:
//
//  1. Dead-load elimination: drop [NIL; POP 1] pairs, except when the POP 1
//     is the function's very last instruction.
//  2. Jump-to-return folding: a JMP to a label immediately followed by RET
//     becomes RET directly.
//  3. Primitive-op inlining: [IMP <primitive>; CALL n] collapses to the
//     single matching arithmetic/comparison opcode.
//  4. Tail-call optimization: a CALL in tail position becomes TAIL.
//  5. Label resolution: LABEL pseudo-instructions are removed and every
//     JMP/JOF operand is rewritten from a label id to an absolute index.
//
// Disassemble writes a human-readable listing of a FunctionImage (index,
// mnemonic, operand and source range per instruction). Parse assembles a
// hand-written mnemonic listing ("label:" prefixes, one mnemonic and
// operand per instruction); it does not read Disassemble's output format.
package asm
