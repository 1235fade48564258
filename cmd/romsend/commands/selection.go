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

package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/romsend/pkg/catalog"
	"github.com/walteh/romsend/pkg/config"
	"github.com/walteh/romsend/pkg/log"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// selection holds the flags that pick files and compression preferences
type selection struct {
	compress   []string
	noCompress bool
	recursive  bool
	ignore     []string
}

func (s *selection) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.compress, "compress", nil, "platforms to compress (overrides config)")
	cmd.Flags().BoolVar(&s.noCompress, "no-compress", false, "copy every file as is")
	cmd.Flags().BoolVarP(&s.recursive, "recursive", "r", false, "descend into sub folders of source directories")
	cmd.Flags().StringSliceVar(&s.ignore, "ignore", nil, "glob patterns to skip, relative to each source directory")
}

// preferences resolves the compression set from flags and config
func (s *selection) preferences(cfg *config.Config) (plan.Preferences, error) {
	switch {
	case s.noCompress:
		return plan.Preferences{}, nil
	case len(s.compress) > 0:
		return plan.NewPreferences(s.compress...)
	default:
		return cfg.Preferences()
	}
}

// sources expands args into source files. Directories are scanned for ROMs
// and explicit files with an unrecognized extension are skipped.
func (s *selection) sources(ctx context.Context, args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		if cfg.Source.Dir == "" {
			return nil, errors.New("no sources given and no source.dir configured")
		}
		args = []string{cfg.Source.Dir}
	}

	opts := source.Options{
		Recursive: s.recursive || cfg.Source.Recursive,
		Ignore:    append(append([]string{}, cfg.Source.Ignore...), s.ignore...),
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Errorf("reading source %s: %w", arg, err)
		}
		if !info.IsDir() {
			if !catalog.IsKnownExtension(catalog.Ext(arg)) {
				log.FromContext(ctx).Warningf("skipping %s: not a recognized ROM extension", filepath.Base(arg))
				continue
			}
			files = append(files, arg)
			continue
		}
		found, err := source.Scan(ctx, arg, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
