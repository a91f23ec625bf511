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

package runtime

import (
	"strings"
	"sync"

	"github.com/bullno1/lip-sub000/value"
)

// SymbolTable is the committed, two-level namespace store of spec §4.10/§5:
// namespace name to symbol name to value. Lookups take the read lock;
// committing a module's declarations takes the write lock, so a module load
// in one VM never observes a half-committed sibling module.
type SymbolTable struct {
	mu sync.RWMutex
	ns map[string]map[string]value.Value
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ns: make(map[string]map[string]value.Value)}
}

// splitName follows spec §4.10: "ns/name" looks up namespace ns then key
// name, a bare "name" looks up the empty namespace.
func splitName(name string) (ns, key string) {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// Lookup resolves a possibly-namespaced name against the committed table.
func (st *SymbolTable) Lookup(name string) (value.Value, bool) {
	ns, key := splitName(name)
	st.mu.RLock()
	defer st.mu.RUnlock()
	m, ok := st.ns[ns]
	if !ok {
		return value.NilValue, false
	}
	v, ok := m[key]
	return v, ok
}

// Commit merges delta into namespace ns atomically, making every entry in it
// visible to Lookup in one step. This is the only write path into the
// table: a module load stages its declarations in a private map and calls
// Commit once, after its body has run to completion.
func (st *SymbolTable) Commit(ns string, delta map[string]value.Value) {
	st.mu.Lock()
	defer st.mu.Unlock()
	m, ok := st.ns[ns]
	if !ok {
		m = make(map[string]value.Value, len(delta))
		st.ns[ns] = m
	}
	for k, v := range delta {
		m[k] = v
	}
}
