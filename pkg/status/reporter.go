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
)

// 📣 Reporter consumes the three event streams of a batch. Events arrive in
// order from a single goroutine; implementations must not assume which one.
type Reporter interface {
	// OnLog receives one human-readable line per processed file
	OnLog(ctx context.Context, line Line)
	// OnProgress receives a non-decreasing percentage after each file
	OnProgress(ctx context.Context, percent int)
	// OnComplete is called exactly once at the end of a batch
	OnComplete(ctx context.Context, summary Summary)
}

// ReporterFuncs adapts plain functions to a Reporter; nil funcs are ignored
type ReporterFuncs struct {
	Log      func(line Line)
	Progress func(percent int)
	Complete func(summary Summary)
}

func (r ReporterFuncs) OnLog(_ context.Context, line Line) {
	if r.Log != nil {
		r.Log(line)
	}
}

func (r ReporterFuncs) OnProgress(_ context.Context, percent int) {
	if r.Progress != nil {
		r.Progress(percent)
	}
}

func (r ReporterFuncs) OnComplete(_ context.Context, summary Summary) {
	if r.Complete != nil {
		r.Complete(summary)
	}
}

// 📨 EventKind tags an Event
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventComplete
)

// Event is the typed form of a Reporter callback
type Event struct {
	Kind    EventKind
	Line    Line
	Percent int
	Summary Summary
}

// ChannelReporter delivers events on a channel that is closed after the
// completion event. Sends block when the buffer is full, so the consumer
// must drain Events until it is closed.
type ChannelReporter struct {
	events chan Event
}

// NewChannelReporter creates a ChannelReporter with the given buffer size
func NewChannelReporter(buffer int) *ChannelReporter {
	return &ChannelReporter{events: make(chan Event, max(buffer, 0))}
}

// Events returns the receive side of the channel
func (c *ChannelReporter) Events() <-chan Event {
	return c.events
}

func (c *ChannelReporter) OnLog(_ context.Context, line Line) {
	c.events <- Event{Kind: EventLog, Line: line}
}

func (c *ChannelReporter) OnProgress(_ context.Context, percent int) {
	c.events <- Event{Kind: EventProgress, Percent: percent}
}

func (c *ChannelReporter) OnComplete(_ context.Context, summary Summary) {
	c.events <- Event{Kind: EventComplete, Summary: summary}
	close(c.events)
}
