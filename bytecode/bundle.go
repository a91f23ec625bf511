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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Bundle packs several modules' function images plus a name manifest into
// one relocatable blob, so a host can ship one file instead of one per
// module (supplemented from the original bundler.c; spec.md itself only
// describes a single-image format).
type Bundle struct {
	Manifest []string // module name for entry i
	Images   []*FunctionImage
}

// Add appends a named image to the bundle.
func (b *Bundle) Add(name string, fi *FunctionImage) {
	b.Manifest = append(b.Manifest, name)
	b.Images = append(b.Images, fi)
}

// Lookup returns the image registered under name, or nil.
func (b *Bundle) Lookup(name string) *FunctionImage {
	for i, n := range b.Manifest {
		if n == name {
			return b.Images[i]
		}
	}
	return nil
}

// MarshalBundle writes the header, an entry count, then each
// (name, image) pair in order.
func MarshalBundle(w io.Writer, b *Bundle) error {
	if err := WriteHeader(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b.Images))); err != nil {
		return errors.Wrap(err, "write bundle entry count")
	}
	for i, img := range b.Images {
		if err := writeString(w, b.Manifest[i]); err != nil {
			return errors.Wrap(err, "write bundle entry name")
		}
		if err := writeImage(w, img); err != nil {
			return errors.Wrapf(err, "write bundle entry %q", b.Manifest[i])
		}
	}
	return nil
}

// UnmarshalBundle reads a bundle written by MarshalBundle, after the
// caller has consumed and validated the header with ReadHeader.
func UnmarshalBundle(r io.Reader) (*Bundle, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "read bundle entry count")
	}
	b := &Bundle{Manifest: make([]string, count), Images: make([]*FunctionImage, count)}
	for i := range b.Images {
		name, err := readString(r)
		if err != nil {
			return nil, errors.Wrap(err, "read bundle entry name")
		}
		img, err := readImage(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read bundle entry %q", name)
		}
		b.Manifest[i] = name
		b.Images[i] = img
	}
	return b, nil
}
