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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/romsend/pkg/operation"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/status"
	"github.com/walteh/romsend/pkg/tool"
)

// 🔧 fakeTool writes a marker file instead of running chdman or 7z
type fakeTool struct {
	mu     sync.Mutex
	prefix string
	fail   map[string]bool
	calls  []string
	hook   func(src string)
}

func newFakeTool(prefix string, failing ...string) *fakeTool {
	f := &fakeTool{prefix: prefix, fail: map[string]bool{}}
	for _, name := range failing {
		f.fail[name] = true
	}
	return f
}

func (f *fakeTool) run(src, dst string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(src))
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(src)
	}
	if f.fail[filepath.Base(src)] {
		return "bad sector", &tool.ExitError{Binary: f.prefix, Code: 1, Output: "bad sector"}
	}
	content, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return "", os.WriteFile(dst, append([]byte(f.prefix+":"), content...), 0o644)
}

func (f *fakeTool) Optimize(_ context.Context, src, dst string) (string, error) {
	return f.run(src, dst)
}

func (f *fakeTool) Compress(_ context.Context, src, dst string) (string, error) {
	return f.run(src, dst)
}

func (f *fakeTool) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// 🧪 setup creates a logger context plus source and destination folders
func setup(t *testing.T) (context.Context, string, string) {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	return ctx, t.TempDir(), t.TempDir()
}

func writeSource(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func prefs(t *testing.T, platforms ...string) plan.Preferences {
	t.Helper()
	p, err := plan.NewPreferences(platforms...)
	require.NoError(t, err)
	return p
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		prefs   []string
		target  string
		content string
	}{
		{name: "copy_uncompressed_platform", source: "mario.nes", target: "nes/mario.nes", content: "rom"},
		{name: "optimize_disc", source: "game.cue", prefs: []string{"psx"}, target: "psx/game.chd", content: "chd:rom"},
		{name: "archive_cartridge", source: "mario.nes", prefs: []string{"nes"}, target: "nes/mario.zip", content: "zip:rom"},
		{name: "precompressed_copied", source: "game.zip", prefs: []string{"arcade"}, target: "arcade/game.zip", content: "rom"},
		{name: "atomiswave_override", source: "atomiswave/disk.lst", target: "atomiswave/disk.lst", content: "rom"},
		{name: "compound_suffix", source: "game.nkit.iso", prefs: []string{"gc"}, target: "gc/game.chd", content: "chd:rom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, src, dst := setup(t)
			path := writeSource(t, src, tt.source, "rom")

			exec := operation.NewExecutor(newFakeTool("chd"), newFakeTool("zip"))
			entry := plan.Plan(plan.Describe(path), prefs(t, tt.prefs...))

			outcome := exec.Execute(ctx, entry, dst)
			require.True(t, outcome.OK(), "unexpected failure: %v", outcome.Err)
			assert.Equal(t, filepath.Join(dst, tt.target), outcome.Target)

			got, err := os.ReadFile(outcome.Target)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))
			assert.Equal(t, int64(len(tt.content)), outcome.Bytes)
			assert.NoFileExists(t, outcome.Target+".tmp")

			original, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "rom", string(original), "source must be untouched")
		})
	}
}

func TestExecuteCopyPreservesMetadata(t *testing.T) {
	ctx, src, dst := setup(t)
	path := writeSource(t, src, "zelda.sfc", "triforce")

	mtime := time.Date(2001, 11, 21, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	exec := operation.NewExecutor(nil, nil)
	outcome := exec.Execute(ctx, plan.Plan(plan.Describe(path), prefs(t)), dst)
	require.True(t, outcome.OK(), "unexpected failure: %v", outcome.Err)

	info, err := os.Stat(filepath.Join(dst, "snes", "zelda.sfc"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, mtime.Equal(info.ModTime()), "mtime %v, want %v", info.ModTime(), mtime)
}

func TestExecuteIdempotent(t *testing.T) {
	ctx, src, dst := setup(t)
	path := writeSource(t, src, "game.cue", "disc")
	exec := operation.NewExecutor(newFakeTool("chd"), nil)
	entry := plan.Plan(plan.Describe(path), prefs(t, "psx"))

	first := exec.Execute(ctx, entry, dst)
	second := exec.Execute(ctx, entry, dst)
	require.True(t, first.OK())
	require.True(t, second.OK())

	entries, err := os.ReadDir(filepath.Join(dst, "psx"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "game.chd", entries[0].Name())
}

func TestExecuteToolFailure(t *testing.T) {
	ctx, src, dst := setup(t)
	path := writeSource(t, src, "broken.cue", "disc")
	exec := operation.NewExecutor(newFakeTool("chdman", "broken.cue"), nil)

	outcome := exec.Execute(ctx, plan.Plan(plan.Describe(path), prefs(t, "psx")), dst)
	assert.False(t, outcome.OK())
	assert.Equal(t, status.StatusFailed, outcome.Status)
	require.Error(t, outcome.Err)
	assert.Equal(t, "bad sector", outcome.Diagnostic)
	assert.NoFileExists(t, filepath.Join(dst, "psx", "broken.chd"))
	assert.NoFileExists(t, filepath.Join(dst, "psx", "broken.chd.tmp"))
	assert.DirExists(t, filepath.Join(dst, "psx"))
}

func TestExecuteMissingSource(t *testing.T) {
	ctx, src, dst := setup(t)
	exec := operation.NewExecutor(nil, nil)

	outcome := exec.Execute(ctx, plan.Plan(plan.Describe(filepath.Join(src, "gone.gba")), prefs(t)), dst)
	assert.False(t, outcome.OK())
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "reading source")
}

// recorder collects every event a batch emits
type recorder struct {
	mu       sync.Mutex
	lines    []status.Line
	progress []int
	complete []status.Summary
}

func (r *recorder) OnLog(_ context.Context, line status.Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recorder) OnProgress(_ context.Context, percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, percent)
}

func (r *recorder) OnComplete(_ context.Context, summary status.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete = append(r.complete, summary)
}

func levels(lines []status.Line) map[status.Level]int {
	out := map[status.Level]int{}
	for _, l := range lines {
		out[l.Level]++
	}
	return out
}

type ledgerStub struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (l *ledgerStub) Record(_ context.Context, batchID string, o status.Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = append(l.ids, batchID+"/"+o.Entry.Source.Name)
	return l.err
}

func TestRunnerBatchWithFailure(t *testing.T) {
	ctx, src, dst := setup(t)
	files := []string{
		writeSource(t, src, "a.cue", "a"),
		writeSource(t, src, "b.cue", "b"),
		writeSource(t, src, "c.gba", "c"),
	}

	ledger := &ledgerStub{}
	rec := &recorder{}
	runner := operation.NewRunner(
		operation.NewExecutor(newFakeTool("chd", "b.cue"), newFakeTool("zip")),
		operation.WithRecorder(ledger),
		operation.WithLockDir(t.TempDir()),
	)

	batch, err := runner.Start(ctx, operation.Request{
		Sources:     files,
		Destination: dst,
		Preferences: prefs(t, "psx"),
		Reporter:    rec,
	})
	require.NoError(t, err)
	require.NotEmpty(t, batch.ID)
	require.Len(t, batch.Entries, 3)

	summary := batch.Wait()

	assert.Equal(t, []int{33, 66, 100}, rec.progress)
	require.Len(t, rec.lines, 3)
	assert.Equal(t, 2, levels(rec.lines)[status.LevelSuccess])
	assert.Equal(t, 1, levels(rec.lines)[status.LevelError])
	assert.Contains(t, rec.lines[1].Text, "b.cue")
	require.Len(t, rec.complete, 1)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Cancelled)
	assert.Equal(t, batch.ID, summary.BatchID)

	assert.FileExists(t, filepath.Join(dst, "psx", "a.chd"))
	assert.NoFileExists(t, filepath.Join(dst, "psx", "b.chd"))
	assert.FileExists(t, filepath.Join(dst, "gba", "c.gba"))

	assert.Equal(t, []string{
		batch.ID + "/a.cue",
		batch.ID + "/b.cue",
		batch.ID + "/c.gba",
	}, ledger.ids)
}

func TestRunnerRecorderErrorIgnored(t *testing.T) {
	ctx, src, dst := setup(t)
	file := writeSource(t, src, "a.nes", "a")

	rec := &recorder{}
	runner := operation.NewRunner(
		operation.NewExecutor(nil, nil),
		operation.WithRecorder(&ledgerStub{err: assert.AnError}),
		operation.WithLockDir(t.TempDir()),
	)

	batch, err := runner.Start(ctx, operation.Request{Sources: []string{file}, Destination: dst, Reporter: rec})
	require.NoError(t, err)

	summary := batch.Wait()
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, []int{100}, rec.progress)
}

func TestRunnerDestinationNotFound(t *testing.T) {
	ctx, src, dst := setup(t)
	file := writeSource(t, src, "a.nes", "a")
	missing := filepath.Join(dst, "not", "mounted")

	rec := &recorder{}
	runner := operation.NewRunner(operation.NewExecutor(nil, nil), operation.WithLockDir(t.TempDir()))

	batch, err := runner.Start(ctx, operation.Request{Sources: []string{file}, Destination: missing, Reporter: rec})
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, operation.ErrDestinationNotFound)
	assert.NoDirExists(t, missing)
	assert.Empty(t, rec.lines)
	assert.Empty(t, rec.complete)
}

func TestRunnerEmptyBatch(t *testing.T) {
	ctx, _, dst := setup(t)
	rec := &recorder{}
	runner := operation.NewRunner(operation.NewExecutor(nil, nil), operation.WithLockDir(t.TempDir()))

	batch, err := runner.Start(ctx, operation.Request{Destination: dst, Reporter: rec})
	require.NoError(t, err)

	summary := batch.Wait()
	assert.Empty(t, rec.progress)
	assert.Empty(t, rec.lines)
	require.Len(t, rec.complete, 1)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 100, status.Percent(summary.Processed(), summary.Total))
}

func TestRunnerCancelBetweenFiles(t *testing.T) {
	ctx, src, dst := setup(t)
	files := []string{
		writeSource(t, src, "a.cue", "a"),
		writeSource(t, src, "b.cue", "b"),
		writeSource(t, src, "c.cue", "c"),
	}

	started := make(chan struct{})
	release := make(chan struct{})
	optimizer := newFakeTool("chd")
	optimizer.hook = func(src string) {
		if strings.HasSuffix(src, "a.cue") {
			close(started)
			<-release
		}
	}

	rec := &recorder{}
	runner := operation.NewRunner(operation.NewExecutor(optimizer, nil), operation.WithLockDir(t.TempDir()))

	batch, err := runner.Start(ctx, operation.Request{
		Sources:     files,
		Destination: dst,
		Preferences: prefs(t, "psx"),
		Reporter:    rec,
	})
	require.NoError(t, err)

	<-started
	batch.Cancel()
	close(release)

	summary := batch.Wait()
	assert.True(t, summary.Cancelled)
	assert.Equal(t, 1, summary.Succeeded, "the in-flight file still finishes")
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, []string{"a.cue"}, optimizer.Calls())
	assert.Equal(t, []int{33}, rec.progress)
	require.Len(t, rec.complete, 1)
	assert.FileExists(t, filepath.Join(dst, "psx", "a.chd"))

	select {
	case <-batch.Done():
	default:
		t.Fatal("done channel should be closed after Wait")
	}
}

func TestRunnerDestinationBusy(t *testing.T) {
	ctx, src, dst := setup(t)
	file := writeSource(t, src, "a.cue", "a")
	lockDir := t.TempDir()

	started := make(chan struct{})
	release := make(chan struct{})
	optimizer := newFakeTool("chd")
	optimizer.hook = func(string) {
		close(started)
		<-release
	}

	runner := operation.NewRunner(operation.NewExecutor(optimizer, nil), operation.WithLockDir(lockDir))

	first, err := runner.Start(ctx, operation.Request{Sources: []string{file}, Destination: dst, Preferences: prefs(t, "psx")})
	require.NoError(t, err)
	<-started

	second, err := runner.Start(ctx, operation.Request{Destination: dst})
	require.Error(t, err)
	assert.Nil(t, second)

	close(release)
	first.Wait()

	third, err := runner.Start(ctx, operation.Request{Destination: dst})
	require.NoError(t, err, "lock is released after the batch finishes")
	third.Wait()
}
