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

// Package fs defines the filesystem capability a host plugs into a
// runtime.Context (spec §6). The module loader never touches os directly:
// every open goes through an FS so a host can sandbox, overlay or mock it.
package fs

import "io"

// FS is the capability collaborator of spec §6. It has only BeginRead and
// BeginWrite: closing the returned stream ends the read or write, and the
// returned error carries the cause when an open fails.
type FS interface {
	BeginRead(path string) (io.ReadCloser, error)
	BeginWrite(path string) (io.WriteCloser, error)
}

// OS is the trivial FS backed directly by the local filesystem, the
// default a host gets if it does not supply its own.
type OS struct{}

func (OS) BeginRead(path string) (io.ReadCloser, error)  { return osOpen(path) }
func (OS) BeginWrite(path string) (io.WriteCloser, error) { return osCreate(path) }
