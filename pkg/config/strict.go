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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🧱 StrictParser decodes one document format straight into Config and
// rejects keys Config does not know
type StrictParser struct {
	Format     string
	Extensions []string
	decode     func(r io.Reader, cfg *Config) error
}

func init() {
	Register(&StrictParser{Format: "YAML", Extensions: []string{".yaml", ".yml"}, decode: decodeYAML})
	Register(&StrictParser{Format: "JSON", Extensions: []string{".json"}, decode: decodeJSON})
	Register(&StrictParser{Format: "TOML", Extensions: []string{".toml"}, decode: decodeTOML})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *StrictParser) CanParse(filename string) bool {
	name := strings.ToLower(strings.TrimSpace(filename))
	for _, ext := range p.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// 📝 Parse decodes data in the parser's format
func (p *StrictParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	if err := p.decode(bytes.NewReader(data), &cfg); err != nil {
		return nil, errors.Errorf("parsing %s: %w", p.Format, err)
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	return decoder.Decode(cfg)
}

func decodeJSON(r io.Reader, cfg *Config) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}

func decodeTOML(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}
