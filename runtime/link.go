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
	"github.com/bullno1/lip-sub000/bytecode"
	"github.com/bullno1/lip-sub000/lerror"
	"github.com/bullno1/lip-sub000/value"
)

// Resolver is anything that can answer a namespaced name lookup: a
// SymbolTable, or an overlay staging a module's own declarations on top of
// one.
type Resolver interface {
	Lookup(name string) (value.Value, bool)
}

// Link walks fi's imports and, recursively, those of every nested function,
// resolving each one against r and writing the result into
// Import.ResolvedValue in place (spec §4.10). An import already resolved
// (anything but a Placeholder) is left untouched, so relinking an image
// already bound to a staging table is a no-op for those names.
func Link(fi *bytecode.FunctionImage, r Resolver) error {
	for i := range fi.Imports {
		imp := &fi.Imports[i]
		if imp.ResolvedValue.Kind != value.Placeholder {
			continue
		}
		v, ok := r.Lookup(imp.Name)
		if !ok {
			return lerror.New(lerror.Link, fi.Locations[0], "unresolved import %q", imp.Name)
		}
		imp.ResolvedValue = v
	}
	for _, nested := range fi.NestedFunctions {
		if err := Link(nested, r); err != nil {
			return err
		}
	}
	return nil
}
