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
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the TOML-loadable knobs of spec §6's VM configuration plus the
// module search patterns of §4.10.
type Config struct {
	VM struct {
		OperandStackSize int `toml:"operand_stack_size"`
		EnvStackSize     int `toml:"env_stack_size"`
		CallStackSize    int `toml:"call_stack_size"`
	} `toml:"vm"`

	Module struct {
		SearchPatterns []string `toml:"search_patterns"`
	} `toml:"module"`
}

// DefaultConfig returns the spec-mandated defaults: 256 slots per stack
// (spec §6) and the eight default search patterns of §4.10.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.VM.OperandStackSize = 256
	cfg.VM.EnvStackSize = 256
	cfg.VM.CallStackSize = 256
	cfg.Module.SearchPatterns = []string{
		"?.lip", "?.lipc", "!.lip", "!.lipc",
		"?/init.lip", "?/init.lipc", "!/init.lip", "!/init.lipc",
	}
	return cfg
}

// LoadFrom reads path and overrides DefaultConfig's fields with whatever it
// sets; a missing file is not an error, it just means "use the defaults".
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %q", path)
	}
	return cfg, nil
}

// SaveTo writes cfg as TOML to path, creating any missing parent
// directories first.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrapf(err, "create config directory %q", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create config file %q", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrapf(err, "encode config file %q", path)
	}
	return nil
}
