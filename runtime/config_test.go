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

package runtime_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bullno1/lip-sub000/runtime"
)

func TestDefaultConfig(t *testing.T) {
	cfg := runtime.DefaultConfig()

	if cfg.VM.OperandStackSize != 256 {
		t.Errorf("expected OperandStackSize=256, got %d", cfg.VM.OperandStackSize)
	}
	if cfg.VM.EnvStackSize != 256 {
		t.Errorf("expected EnvStackSize=256, got %d", cfg.VM.EnvStackSize)
	}
	if cfg.VM.CallStackSize != 256 {
		t.Errorf("expected CallStackSize=256, got %d", cfg.VM.CallStackSize)
	}
	if len(cfg.Module.SearchPatterns) != 8 {
		t.Errorf("expected 8 default search patterns, got %d", len(cfg.Module.SearchPatterns))
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lip.toml")

	cfg := runtime.DefaultConfig()
	cfg.VM.OperandStackSize = 1024
	cfg.Module.SearchPatterns = []string{"?.lip"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := runtime.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.VM.OperandStackSize != 1024 {
		t.Errorf("expected OperandStackSize=1024, got %d", loaded.VM.OperandStackSize)
	}
	if len(loaded.Module.SearchPatterns) != 1 || loaded.Module.SearchPatterns[0] != "?.lip" {
		t.Errorf("expected search patterns [?.lip], got %v", loaded.Module.SearchPatterns)
	}
}

func TestConfigLoadFromMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.toml")

	cfg, err := runtime.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.VM.OperandStackSize != 256 {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestConfigLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.toml")
	if err := os.WriteFile(path, []byte("vm = { operand_stack_size = \"not a number\" }"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := runtime.LoadFrom(path); err == nil {
		t.Fatalf("expected an error loading malformed TOML")
	}
}

func TestConfigSaveCreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "lip.toml")

	if err := runtime.DefaultConfig().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
}
