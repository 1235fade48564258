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

package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 📈 Tracker turns per-file outcomes into ordered log, progress and
// completion events for a single batch
type Tracker struct {
	reporter  Reporter
	formatter FileFormatter

	mu       sync.Mutex
	summary  Summary
	done     int
	finished bool
}

// NewTracker creates a tracker; a nil reporter drops every event
func NewTracker(reporter Reporter) *Tracker {
	if reporter == nil {
		reporter = ReporterFuncs{}
	}
	return &Tracker{
		reporter:  reporter,
		formatter: NewDefaultFileFormatter(),
	}
}

// StartOperation resets the tracker for a batch of total files
func (t *Tracker) StartOperation(ctx context.Context, batchID, destination string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.summary = Summary{
		BatchID:     batchID,
		Destination: destination,
		Total:       total,
		Started:     time.Now(),
	}
	t.done = 0
	t.finished = false

	zerolog.Ctx(ctx).Info().
		Str("batch", batchID).
		Str("destination", destination).
		Int("total", total).
		Msg(t.formatter.FormatProgress(0, total))
}

// Record emits the log line and the progress event for one processed file
func (t *Tracker) Record(ctx context.Context, o Outcome) {
	t.mu.Lock()
	if o.OK() {
		t.summary.Succeeded++
	} else {
		t.summary.Failed++
	}
	t.done++
	done, total, batchID := t.done, t.summary.Total, t.summary.BatchID
	t.mu.Unlock()

	event := zerolog.Ctx(ctx).Info()
	if !o.OK() {
		event = zerolog.Ctx(ctx).Warn().Err(o.Err).Str("diagnostic", o.Diagnostic)
	}
	event.
		Str("batch", batchID).
		Str("source", o.Entry.Source.Path).
		Str("platform", o.Entry.Platform).
		Str("action", o.Entry.Action.String()).
		Str("status", o.Status.String()).
		Dur("took", o.Duration).
		Msg(t.formatter.FormatProgress(done, total))

	t.reporter.OnLog(ctx, t.formatter.FormatOutcome(o))
	t.reporter.OnProgress(ctx, Percent(done, total))
}

// FinishOperation emits the completion event once and returns the summary
// Files never started are counted as skipped.
func (t *Tracker) FinishOperation(ctx context.Context, cancelled bool) Summary {
	t.mu.Lock()
	if t.finished {
		defer t.mu.Unlock()
		return t.summary
	}
	t.finished = true
	t.summary.Cancelled = cancelled
	t.summary.Skipped = t.summary.Total - t.done
	t.summary.Finished = time.Now()
	summary := t.summary
	t.mu.Unlock()

	zerolog.Ctx(ctx).Info().
		Str("batch", summary.BatchID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Bool("cancelled", cancelled).
		Dur("took", summary.Duration()).
		Msg(t.formatter.FormatSummary(summary).Text)

	t.reporter.OnComplete(ctx, summary)
	return summary
}
