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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bullno1/lip-sub000/runtime"
)

// searchPatterns accumulates -search flags, each appended ahead of the
// configured defaults so a flag on the command line always wins.
type searchPatterns []string

func (s *searchPatterns) String() string { return "" }
func (s *searchPatterns) Set(v string) error {
	*s = append(*s, v)
	return nil
}

var (
	configPath string
	debug      bool
	loadModule string
	extraSearch searchPatterns
)

func atExit(err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(1)
}

func main() {
	flag.StringVar(&configPath, "config", "", "path to a TOML runtime configuration file")
	flag.BoolVar(&debug, "debug", false, "print a full error cause chain and traceback on failure")
	flag.StringVar(&loadModule, "load", "", "load and run a module by name instead of evaluating a file")
	flag.Var(&extraSearch, "search", "extra module search pattern (repeatable, '?'/'!' substituted per name)")
	flag.Parse()

	var err error
	defer func() { atExit(err) }()

	cfg := runtime.DefaultConfig()
	if configPath != "" {
		cfg, err = runtime.LoadFrom(configPath)
		if err != nil {
			return
		}
	}
	cfg.Module.SearchPatterns = append(append([]string(nil), extraSearch...), cfg.Module.SearchPatterns...)

	rt := runtime.NewRuntime(cfg, nil)
	ctx := rt.NewContext()

	if loadModule != "" {
		err = ctx.Load(loadModule)
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		err = fmt.Errorf("usage: lip [flags] <script.lip>")
		return
	}

	src, readErr := os.ReadFile(args[0])
	if readErr != nil {
		err = readErr
		return
	}

	result, evalErr := ctx.Eval(args[0], string(src))
	if evalErr != nil {
		err = evalErr
		return
	}
	fmt.Println(result.String())
}
