// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/catalog"
	"github.com/walteh/romsend/pkg/destination"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/tool"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📂 SourceArgs configures how a source folder is scanned
type SourceArgs struct {
	Dir       string   `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	Recursive bool     `json:"recursive,omitempty" yaml:"recursive,omitempty" toml:"recursive,omitempty"`
	Ignore    []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty" validate:"dive,glob"`
}

// 🔧 ToolArgs locates the external programs
type ToolArgs struct {
	Chdman     string `json:"chdman,omitempty" yaml:"chdman,omitempty" toml:"chdman,omitempty" validate:"required"`
	ChdmanMode string `json:"chdman_mode,omitempty" yaml:"chdman_mode,omitempty" toml:"chdman_mode,omitempty" validate:"required,oneof=createcd createdvd createraw"`
	SevenZip   string `json:"sevenzip,omitempty" yaml:"sevenzip,omitempty" toml:"sevenzip,omitempty" validate:"required"`
}

// 📚 Config represents the complete configuration
type Config struct {
	// Destination root; ~ is expanded
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
	// Platforms to compress; nil selects the defaults, an empty list disables compression
	Compress []string   `json:"compress,omitempty" yaml:"compress,omitempty" toml:"compress,omitempty" validate:"dive,platform"`
	Source   SourceArgs `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Tools    ToolArgs   `json:"tools,omitempty" yaml:"tools,omitempty" toml:"tools,omitempty"`
	// History database path; empty with NoHistory disables the ledger
	History   string `json:"history,omitempty" yaml:"history,omitempty" toml:"history,omitempty"`
	NoHistory bool   `json:"no_history,omitempty" yaml:"no_history,omitempty" toml:"no_history,omitempty"`
	LockDir   string `json:"lock_dir,omitempty" yaml:"lock_dir,omitempty" toml:"lock_dir,omitempty"`

	location string
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(expanded)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = expanded

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔎 Find returns the first existing default config file, or "" when there is none
func Find() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.hcl", "config.toml", "config.json"} {
		path := filepath.Join(home, ".config", "romsend", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (cfg *Config) applyDefaults() {
	if cfg.Tools.Chdman == "" {
		cfg.Tools.Chdman = tool.DefaultChdman
	}
	if cfg.Tools.ChdmanMode == "" {
		cfg.Tools.ChdmanMode = tool.DefaultChdmanMode
	}
	if cfg.Tools.SevenZip == "" {
		cfg.Tools.SevenZip = tool.DefaultSevenZip
	}
	if cfg.History == "" && !cfg.NoHistory {
		cfg.History = filepath.Join("~", ".config", "romsend", "history.db")
	}
	if cfg.LockDir == "" {
		cfg.LockDir = destination.DefaultLockDir()
	}
}

// 🔍 Validate applies defaults, expands paths and checks every field
func (cfg *Config) Validate() error {
	cfg.applyDefaults()

	for _, p := range []*string{&cfg.Destination, &cfg.Source.Dir, &cfg.History, &cfg.LockDir} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return errors.Errorf("expanding %q: %w", *p, err)
		}
		*p = filepath.Clean(expanded)
	}

	for i, c := range cfg.Compress {
		cfg.Compress[i] = strings.ToLower(strings.TrimSpace(c))
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.Errorf("%s: failed %q check", verrs[0].Namespace(), verrs[0].Tag())
		}
		return errors.Errorf("validating: %w", err)
	}

	return nil
}

// 🎛️ Preferences returns the compression preferences the config selects
func (cfg *Config) Preferences() (plan.Preferences, error) {
	if cfg.Compress == nil {
		return plan.DefaultPreferences(), nil
	}
	return plan.NewPreferences(cfg.Compress...)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	dst := cfg.Destination
	if dst == "" {
		dst = "<unset>"
	}
	return fmt.Sprintf("%s -> %s (chdman=%s %s, 7z=%s)", cfg.Source.Dir, dst, cfg.Tools.Chdman, cfg.Tools.ChdmanMode, cfg.Tools.SevenZip)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return catalog.IsKnownPlatform(fl.Field().String())
	})
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
	return v
}
