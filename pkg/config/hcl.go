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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// env lets a file refer to environment variables, e.g. env.HOME
	envVars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			envVars[k] = cty.StringVal(v)
		}
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVars),
		},
	}

	type hclConfig struct {
		Destination string   `hcl:"destination,optional"`
		Compress    []string `hcl:"compress,optional"`
		Source      *struct {
			Dir       string   `hcl:"dir,optional"`
			Recursive bool     `hcl:"recursive,optional"`
			Ignore    []string `hcl:"ignore,optional"`
		} `hcl:"source,block"`
		Tools *struct {
			Chdman     string `hcl:"chdman,optional"`
			ChdmanMode string `hcl:"chdman_mode,optional"`
			SevenZip   string `hcl:"sevenzip,optional"`
		} `hcl:"tools,block"`
		History   string `hcl:"history,optional"`
		NoHistory bool   `hcl:"no_history,optional"`
		LockDir   string `hcl:"lock_dir,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Destination: hclCfg.Destination,
		Compress:    hclCfg.Compress,
		History:     hclCfg.History,
		NoHistory:   hclCfg.NoHistory,
		LockDir:     hclCfg.LockDir,
	}
	if hclCfg.Source != nil {
		cfg.Source = SourceArgs{
			Dir:       hclCfg.Source.Dir,
			Recursive: hclCfg.Source.Recursive,
			Ignore:    hclCfg.Source.Ignore,
		}
	}
	if hclCfg.Tools != nil {
		cfg.Tools = ToolArgs{
			Chdman:     hclCfg.Tools.Chdman,
			ChdmanMode: hclCfg.Tools.ChdmanMode,
			SevenZip:   hclCfg.Tools.SevenZip,
		}
	}

	return cfg, nil
}
