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
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/walteh/romsend/pkg/plan"
)

// 🎨 Emoji used in log lines
const (
	EmojiOptimize = "💿"
	EmojiArchive  = "📦"
	EmojiCopy     = "➡️"
	EmojiFailed   = "⚠️"
	EmojiProgress = "⏳"
	EmojiComplete = "✅"
	EmojiFinished = "🎉"
	EmojiStopped  = "🛑"
)

// Message templates
const (
	MsgOptimized      = "%s Optimized disc (CHD): %s -> %s"
	MsgArchived       = "%s Compressed file: %s -> %s"
	MsgCopied         = "%s Copied original: %s -> %s (%s)"
	MsgOptimizeFailed = "%s Disc optimization failed for %s: %v"
	MsgArchiveFailed  = "%s Compression failed for %s: %v"
	MsgCopyFailed     = "%s Copy failed for %s: %v"
	MsgProgress       = "%s Progress: %d/%d (%d%%)"
	MsgFinished       = "%s Transfer finished: %d files (%d ok, %d failed)"
	MsgCancelled      = "%s Transfer cancelled: %d of %d files processed (%d ok, %d failed)"
)

// FileFormatter defines how outcomes and progress are turned into log lines
type FileFormatter interface {
	// FormatOutcome formats the log line for a processed file
	FormatOutcome(o Outcome) Line

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatSummary formats the end-of-batch line
	FormatSummary(s Summary) Line
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatOutcome picks a distinct icon and phrase per action and per result
func (f *DefaultFileFormatter) FormatOutcome(o Outcome) Line {
	name := o.Entry.Source.Name
	rel := filepath.Join(o.Entry.Platform, o.Entry.TargetName)

	switch o.Status {
	case StatusSucceeded:
		var text string
		switch o.Entry.Action {
		case plan.ActionOptimize:
			text = fmt.Sprintf(MsgOptimized, EmojiOptimize, name, rel)
		case plan.ActionArchive:
			text = fmt.Sprintf(MsgArchived, EmojiArchive, name, rel)
		default:
			text = fmt.Sprintf(MsgCopied, EmojiCopy, name, rel, humanize.Bytes(uint64(max(o.Bytes, 0))))
		}
		return Line{Level: LevelSuccess, Text: text}
	default:
		var text string
		switch o.Entry.Action {
		case plan.ActionOptimize:
			text = fmt.Sprintf(MsgOptimizeFailed, EmojiFailed, name, o.Err)
		case plan.ActionArchive:
			text = fmt.Sprintf(MsgArchiveFailed, EmojiFailed, name, o.Err)
		default:
			text = fmt.Sprintf(MsgCopyFailed, EmojiFailed, name, o.Err)
		}
		return Line{Level: LevelError, Text: text}
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	emoji := EmojiProgress
	if current >= total {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, Percent(current, total))
}

// FormatSummary formats the completion line
func (f *DefaultFileFormatter) FormatSummary(s Summary) Line {
	if s.Cancelled {
		return Line{
			Level: LevelWarning,
			Text:  fmt.Sprintf(MsgCancelled, EmojiStopped, s.Processed(), s.Total, s.Succeeded, s.Failed),
		}
	}
	level := LevelSuccess
	if s.Failed > 0 {
		level = LevelWarning
	}
	return Line{
		Level: level,
		Text:  fmt.Sprintf(MsgFinished, EmojiFinished, s.Total, s.Succeeded, s.Failed),
	}
}
