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

// Package arena implements the region-based allocators used by the parser
// (per-parse S-expression storage, non-relocating) and the compiler
// (per-compile temporaries, relocating). Both modes bulk-free in one shot
// via Reset instead of tracking individual frees.
package arena

import "github.com/pkg/errors"

// chunk is one fixed-size backing array. Once an allocation is carved out of
// data[0:used], its slice header stays valid until Reset: growing the arena
// only appends new chunks, it never moves existing ones.
type chunk[T any] struct {
	data []T
	used int
}

// Allocator is a chunked bump allocator for values of type T.
//
// In non-relocating mode (the default), Alloc returns slices that remain
// valid until Reset; Realloc always fails, matching the C allocator's
// contract. In relocating mode, allocations are addressed through a Ref
// instead of a raw slice, so Resize can grow an allocation by copying it to
// a fresh location and updating the Ref's target.
type Allocator[T any] struct {
	chunkSize  int
	relocating bool
	chunks     []*chunk[T]
	fails      []int
	cursor     int
	large      [][]T
	refs       []largeRef[T] // backing storage for relocating-mode Refs
}

// largeRef is the relocating-mode counterpart of a chunk allocation: it owns
// its storage independently so that Resize can replace it wholesale.
type largeRef[T any] struct {
	data []T
}

// Ref addresses a relocating-mode allocation. It stays valid across Resize
// calls; only the slice returned by Get may change.
type Ref int

// New creates an Allocator whose chunk size is raised to at least 1 element
// (a chunk of size 0 could never satisfy an allocation).
func New[T any](chunkSize int) *Allocator[T] {
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Allocator[T]{chunkSize: chunkSize}
}

// NewRelocating creates an Allocator in relocating mode, for compiler
// temporaries that grow incrementally (e.g. an instruction buffer being
// assembled).
func NewRelocating[T any](chunkSize int) *Allocator[T] {
	a := New[T](chunkSize)
	a.relocating = true
	return a
}

// Alloc carves out n contiguous elements. Allocations larger than the chunk
// size bypass the chunk list and go straight to the backing allocator; they
// are tracked so Reset can release them.
func (a *Allocator[T]) Alloc(n int) []T {
	if n > a.chunkSize {
		buf := make([]T, n)
		a.large = append(a.large, buf)
		return buf
	}
	for idx := a.cursor; idx < len(a.chunks); idx++ {
		c := a.chunks[idx]
		if c.used+n <= len(c.data) {
			s := c.data[c.used : c.used+n]
			c.used += n
			return s
		}
		a.fails[idx]++
		if idx == a.cursor && a.fails[idx] >= 3 {
			a.cursor++
		}
	}
	nc := &chunk[T]{data: make([]T, a.chunkSize)}
	a.chunks = append(a.chunks, nc)
	a.fails = append(a.fails, 0)
	nc.used = n
	return nc.data[:n]
}

// Realloc grows a non-relocating allocation in place. It only succeeds when
// the allocation is the most recent one taken from its chunk (there's free
// room immediately after it); otherwise, including for a large (bypass)
// allocation, it fails, matching the C allocator which cannot move memory
// in this mode.
func (a *Allocator[T]) Realloc(old []T, newSize int) ([]T, error) {
	if a.relocating {
		return nil, errors.New("Realloc: use NewRef/Resize in relocating mode")
	}
	if newSize <= len(old) {
		return old[:newSize], nil
	}
	for _, c := range a.chunks {
		if sameBacking(c.data[:c.used], old) {
			extra := newSize - len(old)
			if c.used+extra <= len(c.data) {
				c.used += extra
				return c.data[c.used-newSize : c.used], nil
			}
			return nil, errors.Errorf("realloc: chunk has no room to grow allocation to %d elements", newSize)
		}
	}
	return nil, errors.New("realloc: allocation not found in any chunk (non-relocating mode cannot move memory)")
}

func sameBacking[T any](chunkUsed, old []T) bool {
	if len(old) == 0 || len(chunkUsed) < len(old) {
		return false
	}
	tail := chunkUsed[len(chunkUsed)-len(old):]
	return &tail[0] == &old[0]
}

// NewRef allocates n elements in relocating mode and returns a stable
// handle for them.
func (a *Allocator[T]) NewRef(n int) Ref {
	a.refs = append(a.refs, largeRef[T]{data: make([]T, n)})
	return Ref(len(a.refs) - 1)
}

// Get returns the current backing slice for ref.
func (a *Allocator[T]) Get(ref Ref) []T {
	return a.refs[ref].data
}

// Resize grows or shrinks the allocation addressed by ref, copying existing
// elements into a freshly allocated buffer (the "relocation").
func (a *Allocator[T]) Resize(ref Ref, newSize int) []T {
	old := a.refs[ref].data
	next := make([]T, newSize)
	copy(next, old)
	a.refs[ref].data = next
	return next
}

// Reset returns all memory to the arena without releasing the underlying
// chunks, so a subsequent parse/compile can reuse the same backing storage.
func (a *Allocator[T]) Reset() {
	for _, c := range a.chunks {
		c.used = 0
	}
	for i := range a.fails {
		a.fails[i] = 0
	}
	a.cursor = 0
	a.large = nil
	a.refs = nil
}
