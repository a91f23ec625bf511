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

package arena_test

import (
	"testing"

	"github.com/bullno1/lip-sub000/arena"
)

func TestAllocCarvesOutOfOneChunkUntilFull(t *testing.T) {
	a := arena.New[int](4)
	first := a.Alloc(2)
	second := a.Alloc(2)
	first[0] = 1
	second[0] = 2
	if first[0] != 1 || second[0] != 2 {
		t.Fatalf("expected independent slices, got %v %v", first, second)
	}

	third := a.Alloc(1)
	third[0] = 3
	if first[0] != 1 {
		t.Fatalf("a later allocation must not alias an earlier one's backing array")
	}
}

func TestAllocOversizedBypassesChunks(t *testing.T) {
	a := arena.New[int](2)
	big := a.Alloc(10)
	if len(big) != 10 {
		t.Fatalf("expected a 10-element allocation, got %d", len(big))
	}
}

func TestResetReusesChunkStorage(t *testing.T) {
	a := arena.New[int](4)
	first := a.Alloc(4)
	first[0] = 42

	a.Reset()

	second := a.Alloc(4)
	if &second[0] != &first[0] {
		t.Fatalf("expected Reset to reuse the same backing chunk")
	}
	if second[0] != 42 {
		t.Fatalf("Reset must not zero memory, only reclaim it")
	}
}

func TestReallocGrowsMostRecentAllocationInPlace(t *testing.T) {
	a := arena.New[int](8)
	buf := a.Alloc(2)
	buf[0], buf[1] = 1, 2

	grown, err := a.Realloc(buf, 4)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if grown[0] != 1 || grown[1] != 2 {
		t.Fatalf("expected Realloc to preserve existing elements, got %v", grown)
	}
}

func TestReallocFailsWhenNotTheMostRecentAllocation(t *testing.T) {
	a := arena.New[int](8)
	stale := a.Alloc(2)
	a.Alloc(2) // pushes stale out of "most recent" position

	if _, err := a.Realloc(stale, 4); err == nil {
		t.Fatalf("expected Realloc to fail on a non-trailing allocation")
	}
}

func TestReallocInRelocatingModeIsRejected(t *testing.T) {
	a := arena.NewRelocating[int](8)
	buf := a.Alloc(2)
	if _, err := a.Realloc(buf, 4); err == nil {
		t.Fatalf("expected Realloc to be rejected in relocating mode")
	}
}

func TestRelocatingRefResizePreservesContentsAndUpdatesGet(t *testing.T) {
	a := arena.NewRelocating[int](8)
	ref := a.NewRef(2)
	a.Get(ref)[0] = 7
	a.Get(ref)[1] = 8

	grown := a.Resize(ref, 4)
	if grown[0] != 7 || grown[1] != 8 {
		t.Fatalf("expected Resize to copy existing contents, got %v", grown)
	}
	if &a.Get(ref)[0] != &grown[0] {
		t.Fatalf("expected Get to reflect the resized backing slice")
	}
}
