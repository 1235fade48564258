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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/status"
	"github.com/walteh/romsend/pkg/tool"
	"gitlab.com/tozd/go/errors"
)

const tempSuffix = ".tmp"

// 💿 Optimizer converts a disc image into a CHD file
type Optimizer interface {
	Optimize(ctx context.Context, src, dst string) (string, error)
}

// 📦 Compressor packs a single file into a zip archive
type Compressor interface {
	Compress(ctx context.Context, src, dst string) (string, error)
}

// 🚚 Executor carries out one plan entry against a destination root
type Executor struct {
	optimizer  Optimizer
	compressor Compressor
}

// 🏭 NewExecutor creates an executor backed by the given tools
func NewExecutor(optimizer Optimizer, compressor Compressor) *Executor {
	return &Executor{
		optimizer:  optimizer,
		compressor: compressor,
	}
}

// 🏃 Execute runs entry and reports how it went. It never returns an error
// and never modifies the source file.
func (e *Executor) Execute(ctx context.Context, entry plan.Entry, root string) status.Outcome {
	start := time.Now()
	target := entry.TargetPath(root)

	outcome := status.Outcome{
		Entry:  entry,
		Target: target,
		Status: status.StatusFailed,
	}

	logger := zerolog.Ctx(ctx).With().
		Str("source", entry.Source.Path).
		Str("target", target).
		Str("action", entry.Action.String()).
		Logger()

	size, err := e.execute(ctx, entry, target)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Err = err
		outcome.Diagnostic = tool.Diagnostic(err)
		logger.Debug().Err(err).Msg("entry failed")
		return outcome
	}

	outcome.Status = status.StatusSucceeded
	outcome.Bytes = size
	logger.Debug().Int64("bytes", size).Dur("took", outcome.Duration).Msg("entry done")
	return outcome
}

func (e *Executor) execute(ctx context.Context, entry plan.Entry, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, errors.Errorf("creating platform folder: %w", err)
	}

	switch entry.Action {
	case plan.ActionOptimize:
		if e.optimizer == nil {
			return 0, errors.New("no disc optimizer configured")
		}
		return runTool(target, func(tmp string) (string, error) {
			return e.optimizer.Optimize(ctx, entry.Source.Path, tmp)
		})
	case plan.ActionArchive:
		if e.compressor == nil {
			return 0, errors.New("no compressor configured")
		}
		return runTool(target, func(tmp string) (string, error) {
			return e.compressor.Compress(ctx, entry.Source.Path, tmp)
		})
	default:
		return copyFile(ctx, entry.Source.Path, target)
	}
}

// runTool lets fn write into a temporary sibling of target and moves the
// result into place once fn succeeds
func runTool(target string, fn func(tmp string) (string, error)) (int64, error) {
	tmp := target + tempSuffix
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return 0, errors.Errorf("removing stale temp file: %w", err)
	}

	if _, err := fn(tmp); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return 0, errors.Errorf("tool produced no output: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Errorf("moving output into place: %w", err)
	}

	return info.Size(), nil
}
