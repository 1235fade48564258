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
	"time"

	"github.com/walteh/romsend/pkg/plan"
)

// 📊 FileStatus represents how processing of a single file ended
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusSucceeded            // Target written
	StatusFailed               // Tool or filesystem error
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Outcome is the result of executing one plan entry
type Outcome struct {
	Entry      plan.Entry    // What was planned
	Target     string        // Absolute destination path
	Status     FileStatus    // How it ended
	Err        error         // Any error associated with this file
	Diagnostic string        // Tool output captured on failure
	Bytes      int64         // Size of the written target
	Duration   time.Duration // Wall time spent on the file
}

// OK reports whether the outcome succeeded
func (o Outcome) OK() bool {
	return o.Status == StatusSucceeded
}

// 🚦 Level classifies a log line
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns a string representation of Level
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// 📝 Line is one human-readable log event
type Line struct {
	Level Level
	Text  string
}

func (l Line) String() string {
	return l.Text
}

// 🧾 Summary describes a finished batch
type Summary struct {
	BatchID     string
	Destination string
	Total       int
	Succeeded   int
	Failed      int
	Skipped     int
	Cancelled   bool
	Started     time.Time
	Finished    time.Time
}

// Processed returns the number of files that were attempted
func (s Summary) Processed() int {
	return s.Succeeded + s.Failed
}

// Duration returns how long the batch ran
func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Percent returns floor(done*100/total) clamped to 0..100; an empty batch is complete
func Percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	if done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return done * 100 / total
}
