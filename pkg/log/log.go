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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/romsend/pkg/status"
)

const lineIndent = 4 // spaces to indent per-file lines

// 📦 BatchInfo describes a batch for its console header
type BatchInfo struct {
	ID          string
	Destination string
	Files       int
}

// 🎯 Logger renders batch events and user messages on a console. It
// implements status.Reporter.
type Logger struct {
	zlog     zerolog.Logger
	console  io.Writer
	mu       sync.Mutex
	lines    int
	progress func(percent int)
}

var _ status.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger writing user output to console
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// WithProgress routes progress events to fn, e.g. a progress bar
func (l *Logger) WithProgress(fn func(percent int)) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.progress = fn
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, falling back to stderr
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return New(os.Stderr, *zerolog.Ctx(ctx))
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartBatch prints the batch header
func (l *Logger) StartBatch(ctx context.Context, info BatchInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = 0

	fmt.Fprintf(l.console, "[sending to %s]\n",
		color.New(color.FgCyan).Sprint(info.Destination))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d files", info.Files),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(info.ID))

	l.zlog.Info().
		Str("batch", info.ID).
		Str("destination", info.Destination).
		Int("files", info.Files).
		Msg("starting batch")
}

// 📝 OnLog prints one processed file
func (l *Logger) OnLog(ctx context.Context, line status.Line) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines++
	fmt.Fprintf(l.console, "%*s%s\n", lineIndent, "", status.Colored(line))
}

// 📊 OnProgress forwards progress to the configured hook
func (l *Logger) OnProgress(ctx context.Context, percent int) {
	l.mu.Lock()
	fn := l.progress
	l.mu.Unlock()

	if fn != nil {
		fn(percent)
	}
}

// 🏁 OnComplete prints the batch summary
func (l *Logger) OnComplete(ctx context.Context, summary status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := status.NewDefaultFileFormatter().FormatSummary(summary)
	took := summary.Duration().Round(time.Millisecond)

	var printer *pterm.PrefixPrinter
	switch line.Level {
	case status.LevelSuccess:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "DONE", Style: pterm.Success.Prefix.Style})
	default:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "DONE", Style: pterm.Warning.Prefix.Style})
	}
	fmt.Fprintln(l.console)
	printer.WithWriter(l.console).Println(fmt.Sprintf("%s in %s", line.Text, took))

	l.zlog.Info().
		Str("batch", summary.BatchID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Bool("cancelled", summary.Cancelled).
		Int("lines", l.lines).
		Msg("batch complete")
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
