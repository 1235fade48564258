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

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	l, err := Open(ctx, path)
	require.NoError(t, err)
	defer l.Close()

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	ok := status.Outcome{
		Entry:    plan.Plan(plan.Describe("/roms/game.cue"), plan.Preferences{"psx": true}),
		Target:   "/dst/psx/game.chd",
		Status:   status.StatusSucceeded,
		Bytes:    2048,
		Duration: 1500 * time.Millisecond,
	}
	failed := status.Outcome{
		Entry:  plan.Plan(plan.Describe("/roms/mario.nes"), plan.Preferences{}),
		Target: "/dst/nes/mario.nes",
		Status: status.StatusFailed,
		Err:    errors.New("permission denied"),
	}

	require.NoError(t, l.Record(ctx, "batch-1", ok))
	require.NoError(t, l.Record(ctx, "batch-1", failed))

	records, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "/roms/mario.nes", records[0].Source, "newest first")
	assert.Equal(t, "failed", records[0].Status)
	assert.Equal(t, "permission denied", records[0].Error)
	assert.Equal(t, "copy", records[0].Action)

	got := records[1]
	assert.Equal(t, "batch-1", got.BatchID)
	assert.Equal(t, "/dst/psx/game.chd", got.Target)
	assert.Equal(t, "psx", got.Platform)
	assert.Equal(t, "optimize-disc", got.Action)
	assert.Equal(t, "succeeded", got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, int64(2048), got.Bytes)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, fixed.Equal(got.CreatedAt))

	limited, err := l.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLedgerReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	l, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, "b", status.Outcome{Status: status.StatusSucceeded}))
	require.NoError(t, l.Close())

	l, err = Open(ctx, path)
	require.NoError(t, err)
	defer l.Close()

	records, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, path, l.Path())
}
