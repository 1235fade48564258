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

package source

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/catalog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Options controls which files Scan returns
type Options struct {
	Recursive bool     // Descend into sub folders
	Ignore    []string // Doublestar globs matched against the path relative to the scanned folder
}

// 📂 Scan lists the ROM files in dir, sorted by path. Only files with an
// extension the catalog knows are returned.
func Scan(ctx context.Context, dir string, opts Options) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range opts.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return errors.Errorf("getting relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !opts.Recursive || ignored(rel, opts.Ignore) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if ignored(rel, opts.Ignore) {
			logger.Debug().Str("file", rel).Msg("ignored by pattern")
			return nil
		}
		if !catalog.IsKnownExtension(catalog.Ext(path)) {
			logger.Debug().Str("file", rel).Msg("skipping unknown extension")
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}
