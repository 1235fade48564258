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

package opts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts holds the options shared by every command
type RootOpts struct {
	ConfigFile string
	Debug      bool

	Config *config.Config
}

// 🔧 Load reads the config file, falling back to the default locations and
// then to built-in defaults
func (o *RootOpts) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	path := o.ConfigFile
	if path == "" {
		path = config.Find()
	}

	if path == "" {
		logger.Debug().Msg("no config file found, using defaults")
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return errors.Errorf("validating default config: %w", err)
		}
		o.Config = cfg
		return nil
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	return nil
}
