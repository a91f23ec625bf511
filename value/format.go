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

package value

import (
	"fmt"
	"io"
	"strings"
)

// Format pretty-prints v to w, indenting nested lists one level per
// recursion and truncating a list to "(...)" once maxDepth levels have been
// descended into, so a REPL or debugger printing a deeply recursive or
// self-referential structure never runs away.
func Format(w io.Writer, v Value, maxDepth int) {
	formatValue(w, v, maxDepth, 0)
}

func formatValue(w io.Writer, v Value, maxDepth, indent int) {
	if v.Kind != List || maxDepth <= 0 {
		if v.Kind == List && maxDepth <= 0 {
			io.WriteString(w, "(...)")
			return
		}
		io.WriteString(w, v.String())
		return
	}

	elems := v.L.Elements()
	if len(elems) == 0 {
		io.WriteString(w, "()")
		return
	}

	io.WriteString(w, "(")
	pad := strings.Repeat("  ", indent+1)
	for i, e := range elems {
		if i > 0 {
			fmt.Fprintf(w, "\n%s", pad)
		}
		formatValue(w, e, maxDepth-1, indent+1)
	}
	io.WriteString(w, ")")
}
