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

// Package vm implements the register-less, three-stack bytecode virtual
// machine of spec §4.9.
//
// An Instance owns three stacks, sized at construction by OperandStackSize,
// EnvStackSize and CallStackSize:
//
//   - the operand stack, pushed/popped by most opcodes;
//   - the env stack, holding each active call's argument and local-variable
//     slots (LARG/LDLV/LDCV address into it, or into a closure's captured
//     environment);
//   - the call stack, one frame per script call still in progress.
//
// Run executes a linked, zero-argument or already-curried *bytecode.
// FunctionImage to completion and returns its result. CALL and TAIL follow
// the protocols of spec §4.9.2-§4.9.3: a tail call reuses the current
// frame's env window and cuts the operand stack back to the frame's
// entry point, so self- and mutually-tail-recursive lip programs run in
// bounded Go stack depth regardless of lip call depth.
//
// A Hook, attached with the WithHook option, observes execution read-only:
// Step runs before every instruction, Error runs once if the program
// fails.
package vm
