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

package fs_test

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/bullno1/lip-sub000/fs"
)

func TestOSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.lip")

	var osfs fs.OS
	w, err := osfs.BeginWrite(path)
	if err != nil {
		t.Fatalf("BeginWrite: %v", err)
	}
	if _, err := w.Write([]byte("(+ 1 1)")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := osfs.BeginRead(path)
	if err != nil {
		t.Fatalf("BeginRead: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "(+ 1 1)" {
		t.Fatalf("expected %q, got %q", "(+ 1 1)", data)
	}
}

func TestOSBeginReadMissingFile(t *testing.T) {
	var osfs fs.OS
	_, err := osfs.BeginRead(filepath.Join(t.TempDir(), "does-not-exist.lip"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
