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

// Package lipi holds small helpers used by the bytecode package that would
// otherwise have no natural home.
package lipi

// Block describes one variable-length record to be packed into a flat
// buffer: elemSize * count bytes, aligned to alignment.
type Block struct {
	ElemSize  int
	Count     int
	Alignment int
}

// Layout is the result of packing a list of Blocks one after another.
type Layout struct {
	TotalSize int
	Alignment int
	Offsets   []int
}

// Pack computes the offset of each block such that block i starts at the
// smallest position >= the cursor left by block i-1 that satisfies its own
// alignment. The base pointer is assumed to already be aligned to the
// maximum alignment of all blocks. Used by the bytecode package to lay out
// the file header.
func Pack(blocks []Block) Layout {
	offsets := make([]int, len(blocks))
	cursor := 0
	maxAlign := 1
	for idx, b := range blocks {
		align := b.Alignment
		if align < 1 {
			align = 1
		}
		if align > maxAlign {
			maxAlign = align
		}
		if rem := cursor % align; rem != 0 {
			cursor += align - rem
		}
		offsets[idx] = cursor
		cursor += b.ElemSize * b.Count
	}
	return Layout{TotalSize: cursor, Alignment: maxAlign, Offsets: offsets}
}
