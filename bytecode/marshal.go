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

	"github.com/bullno1/lip-sub000/internal/lipi"
	"github.com/bullno1/lip-sub000/opcode"
	"github.com/bullno1/lip-sub000/token"
	"github.com/bullno1/lip-sub000/value"
	"github.com/pkg/errors"
)

// Marshal writes the magic/header followed by the packed function image
// body to w. writeImage latches write errors via lipi.ErrWriter so the
// body's many fields can be written unconditionally and checked once.
func Marshal(w io.Writer, fi *FunctionImage) error {
	if err := WriteHeader(w); err != nil {
		return err
	}
	return writeImage(w, fi)
}

// Unmarshal reads a function image body written by Marshal, after the
// caller has already consumed and validated the header with ReadHeader.
func Unmarshal(r io.Reader) (*FunctionImage, error) {
	return readImage(r)
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeValue(w io.Writer, v value.Value) error {
	if err := binary.Write(w, binary.LittleEndian, byte(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case value.Nil:
		return nil
	case value.Boolean:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		return binary.Write(w, binary.LittleEndian, b)
	case value.Number:
		return binary.Write(w, binary.LittleEndian, v.Num)
	case value.String, value.Symbol:
		return writeString(w, v.Str)
	case value.Placeholder:
		return binary.Write(w, binary.LittleEndian, v.PlhI)
	default:
		return errors.Errorf("value kind %s is not serializable in a function image", v.Kind)
	}
}

func readValue(r io.Reader) (value.Value, error) {
	var kindByte byte
	if err := binary.Read(r, binary.LittleEndian, &kindByte); err != nil {
		return value.Value{}, err
	}
	kind := value.Kind(kindByte)
	switch kind {
	case value.Nil:
		return value.NilValue, nil
	case value.Boolean:
		var b byte
		if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
			return value.Value{}, err
		}
		return value.NewBoolean(b != 0), nil
	case value.Number:
		var f float64
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return value.Value{}, err
		}
		return value.NewNumber(f), nil
	case value.String:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(s), nil
	case value.Symbol:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewSymbol(s), nil
	case value.Placeholder:
		var i uint32
		if err := binary.Read(r, binary.LittleEndian, &i); err != nil {
			return value.Value{}, err
		}
		return value.NewPlaceholder(i), nil
	default:
		return value.Value{}, errors.Errorf("unknown serialized value kind %d", kindByte)
	}
}

func writeLoc(w io.Writer, r token.Range) error {
	fields := [4]int32{
		int32(r.Start.Line), int32(r.Start.Column),
		int32(r.End.Line), int32(r.End.Column),
	}
	return binary.Write(w, binary.LittleEndian, fields)
}

func readLoc(r io.Reader) (token.Range, error) {
	var fields [4]int32
	if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
		return token.Range{}, err
	}
	return token.Range{
		Start: token.Loc{Line: int(fields[0]), Column: int(fields[1])},
		End:   token.Loc{Line: int(fields[2]), Column: int(fields[3])},
	}, nil
}

func writeImage(w io.Writer, fi *FunctionImage) error {
	ew := lipi.NewErrWriter(w)

	writeString(ew, fi.SourceName)
	varargByte := byte(0)
	if fi.IsVararg {
		varargByte = 1
	}
	binary.Write(ew, binary.LittleEndian, [3]uint16{fi.NumArgs, uint16(varargByte), fi.NumLocals})

	binary.Write(ew, binary.LittleEndian, uint16(len(fi.Imports)))
	for _, imp := range fi.Imports {
		writeString(ew, imp.Name)
		writeValue(ew, imp.ResolvedValue)
	}

	binary.Write(ew, binary.LittleEndian, uint16(len(fi.Constants)))
	for _, c := range fi.Constants {
		writeValue(ew, c)
	}

	binary.Write(ew, binary.LittleEndian, uint16(len(fi.NestedFunctions)))
	for _, nested := range fi.NestedFunctions {
		if ew.Err == nil {
			ew.Err = writeImage(ew, nested)
		}
	}

	binary.Write(ew, binary.LittleEndian, uint32(len(fi.Instructions)))
	for _, instr := range fi.Instructions {
		binary.Write(ew, binary.LittleEndian, uint32(instr))
	}
	for _, loc := range fi.Locations {
		writeLoc(ew, loc)
	}

	if ew.Err != nil {
		return errors.Wrap(ew.Err, "write function image")
	}
	return nil
}

func readImage(r io.Reader) (*FunctionImage, error) {
	fi := &FunctionImage{}
	var err error
	if fi.SourceName, err = readString(r); err != nil {
		return nil, errors.Wrap(err, "read source name")
	}

	var header [3]uint16
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read function header")
	}
	fi.NumArgs, fi.IsVararg, fi.NumLocals = header[0], header[1] != 0, header[2]

	var numImports uint16
	if err := binary.Read(r, binary.LittleEndian, &numImports); err != nil {
		return nil, err
	}
	fi.Imports = make([]Import, numImports)
	for i := range fi.Imports {
		if fi.Imports[i].Name, err = readString(r); err != nil {
			return nil, errors.Wrap(err, "read import name")
		}
		if fi.Imports[i].ResolvedValue, err = readValue(r); err != nil {
			return nil, errors.Wrap(err, "read import value")
		}
	}

	var numConstants uint16
	if err := binary.Read(r, binary.LittleEndian, &numConstants); err != nil {
		return nil, err
	}
	fi.Constants = make([]value.Value, numConstants)
	for i := range fi.Constants {
		if fi.Constants[i], err = readValue(r); err != nil {
			return nil, errors.Wrap(err, "read constant")
		}
	}

	var numFunctions uint16
	if err := binary.Read(r, binary.LittleEndian, &numFunctions); err != nil {
		return nil, err
	}
	fi.NestedFunctions = make([]*FunctionImage, numFunctions)
	for i := range fi.NestedFunctions {
		if fi.NestedFunctions[i], err = readImage(r); err != nil {
			return nil, errors.Wrap(err, "read nested function")
		}
	}

	var numInstructions uint32
	if err := binary.Read(r, binary.LittleEndian, &numInstructions); err != nil {
		return nil, err
	}
	fi.Instructions = make([]opcode.Instruction, numInstructions)
	for i := range fi.Instructions {
		var word uint32
		if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
			return nil, errors.Wrap(err, "read instruction")
		}
		fi.Instructions[i] = opcode.Instruction(word)
	}
	fi.Locations = make([]token.Range, numInstructions+1)
	for i := range fi.Locations {
		if fi.Locations[i], err = readLoc(r); err != nil {
			return nil, errors.Wrap(err, "read location")
		}
	}
	return fi, nil
}
