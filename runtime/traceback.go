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

import "github.com/bullno1/lip-sub000/lerror"

// TracebackOf extracts the call-stack snapshot a failed Eval or Load
// attached to its error, if any. A compile-time failure (lex, parse,
// syntax, link) never carries one; only a *lerror.Error of Kind Runtime
// does.
func TracebackOf(err error) (lerror.Traceback, bool) {
	le, ok := err.(*lerror.Error)
	if !ok || len(le.Traceback) == 0 {
		return nil, false
	}
	return le.Traceback, true
}
