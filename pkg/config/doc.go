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

// Package config loads romsend settings from YAML, HCL, JSON or TOML files.
//
//	+-------------+     +----------+     +-----------+
//	|    file     | --> |  Parser  | --> |  Config   |
//	| .yaml  .hcl |     | registry |     | validated |
//	| .json .toml |     +----------+     +-----------+
//	+-------------+
//
// 🎯 Purpose:
// - Pick a parser from the file extension
// - Apply defaults for the external tools, history ledger and lock folder
// - Expand ~ in every path
// - Validate platform ids and ignore globs with struct tags
//
// 🔄 Flow:
// 1. Load reads the file and hands it to the matching Parser
// 2. Validate fills defaults and normalizes paths
// 3. Preferences turns the compress list into plan.Preferences
//
// 🔍 Example:
//
//	cfg, err := config.Load(ctx, "~/.config/romsend/config.yaml")
//	if err != nil {
//		return err
//	}
//	prefs, err := cfg.Preferences()
//
// A minimal YAML file:
//
//	destination: /mnt/rocknix/roms
//	compress: [psx, ps2, gc]
//	source:
//	  ignore: ["**/bios/**"]
package config
