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

package bytecode

import (
	"bytes"
	"encoding/binary"
	"io"
	"unsafe"

	"github.com/bullno1/lip-sub000/internal/lipi"
	"github.com/pkg/errors"
)

// Magic identifies a bytecode stream; any other leading 4 bytes means the
// stream is source text (spec §6).
var Magic = [4]byte{'L', 'I', 'P', 0}

const bom uint16 = 1

// headerLayout describes the fixed leading portion of a bytecode file: the
// magic, the compiling process's pointer size, and the byte-order mark.
// Computed with internal/lipi.Pack, even though a flat byte-offset table
// buys little beyond
// documentation once the fields are this few.
var headerLayout = lipi.Pack([]lipi.Block{
	{ElemSize: 1, Count: 4, Alignment: 1}, // magic
	{ElemSize: 1, Count: 1, Alignment: 1}, // pointer size
	{ElemSize: 2, Count: 1, Alignment: 2}, // BOM
})

// PointerSize is the pointer width this process compiles bytecode for.
// Bytecode is not portable across pointer sizes (spec §6).
func PointerSize() byte { return byte(unsafe.Sizeof(uintptr(0))) }

// ErrIncompatible reports a pointer-size or byte-order mismatch.
var ErrIncompatible = errors.New("incompatible bytecode")

// WriteHeader writes the magic/pointer-size/BOM header.
func WriteHeader(w io.Writer) error {
	buf := make([]byte, headerLayout.TotalSize)
	copy(buf[headerLayout.Offsets[0]:], Magic[:])
	buf[headerLayout.Offsets[1]] = PointerSize()
	binary.LittleEndian.PutUint16(buf[headerLayout.Offsets[2]:], bom)
	_, err := w.Write(buf)
	return errors.Wrap(err, "write bytecode header")
}

// ReadHeader reads and validates the header, or returns (false, nil) if
// the stream's leading bytes are not the bytecode magic at all (meaning:
// treat the stream as source).
func ReadHeader(r io.Reader) (isBytecode bool, err error) {
	buf := make([]byte, headerLayout.TotalSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return false, nil
		}
		return false, errors.Wrap(err, "read bytecode header")
	}
	if !bytes.Equal(buf[headerLayout.Offsets[0]:headerLayout.Offsets[0]+4], Magic[:]) {
		return false, nil
	}
	if buf[headerLayout.Offsets[1]] != PointerSize() {
		return true, ErrIncompatible
	}
	if binary.LittleEndian.Uint16(buf[headerLayout.Offsets[2]:]) != bom {
		return true, ErrIncompatible
	}
	return true, nil
}
