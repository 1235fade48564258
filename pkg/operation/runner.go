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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/destination"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrDestinationNotFound is returned by Start before any work happens
var ErrDestinationNotFound = destination.ErrNotFound

// 📒 Recorder receives every outcome of a batch, e.g. a history ledger
type Recorder interface {
	Record(ctx context.Context, batchID string, o status.Outcome) error
}

// 📨 Request describes one batch
type Request struct {
	Sources     []string         // Source file paths, in processing order
	Destination string           // Destination root as given by the user
	Preferences plan.Preferences // Platforms to compress
	Reporter    status.Reporter  // Receives log, progress and completion events
}

// 🏃 Runner starts batches
type Runner struct {
	executor *Executor
	recorder Recorder
	lockDir  string
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithRecorder attaches a recorder to every batch
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithLockDir sets where destination locks are kept
func WithLockDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.lockDir = dir
	}
}

// 🏗️ NewRunner creates a new runner
func NewRunner(executor *Executor, opts ...RunnerOption) *Runner {
	r := &Runner{executor: executor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// 📦 Batch is a running transfer
type Batch struct {
	ID          string
	Destination string
	Entries     []plan.Entry

	cancel  context.CancelFunc
	done    chan struct{}
	summary status.Summary
}

// Cancel asks the batch to stop before its next file
func (b *Batch) Cancel() {
	b.cancel()
}

// Done is closed once the completion event has been emitted
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch finishes and returns its summary
func (b *Batch) Wait() status.Summary {
	<-b.done
	return b.summary
}

// 🚀 Start validates the destination, plans every source and processes the
// batch on its own goroutine. Only destination problems are returned as
// errors; per-file failures arrive as log events.
func (r *Runner) Start(ctx context.Context, req Request) (*Batch, error) {
	root, err := destination.Resolve(req.Destination)
	if err != nil {
		return nil, err
	}

	lock, err := destination.Acquire(ctx, root, r.lockDir)
	if err != nil {
		return nil, errors.Errorf("locking destination: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("root", root).Str("lock", lock.Path()).Msg("destination locked")

	batchCtx, cancel := context.WithCancel(ctx)
	b := &Batch{
		ID:          uuid.NewString(),
		Destination: root,
		Entries:     plan.PlanAll(req.Sources, req.Preferences),
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	tracker := status.NewTracker(req.Reporter)

	go func() {
		defer cancel()
		summary := r.run(batchCtx, b, tracker)
		if err := lock.Release(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("releasing destination lock")
		}
		b.summary = summary
		close(b.done)
	}()

	return b, nil
}

func (r *Runner) run(ctx context.Context, b *Batch, tracker *status.Tracker) status.Summary {
	logger := zerolog.Ctx(ctx)
	tracker.StartOperation(ctx, b.ID, b.Destination, len(b.Entries))

	// in-flight files finish even when the batch is cancelled
	fileCtx := context.WithoutCancel(ctx)

	cancelled := false
	for _, entry := range b.Entries {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		outcome := r.executor.Execute(fileCtx, entry, b.Destination)

		if r.recorder != nil {
			if err := r.recorder.Record(fileCtx, b.ID, outcome); err != nil {
				logger.Warn().Err(err).Str("source", entry.Source.Path).Msg("recording outcome")
			}
		}

		tracker.Record(fileCtx, outcome)
	}

	return tracker.FinishOperation(fileCtx, cancelled)
}
