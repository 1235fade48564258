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
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/walteh/romsend/pkg/status"
	"gitlab.com/tozd/go/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transfers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id    TEXT NOT NULL,
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	platform    TEXT NOT NULL,
	action      TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	bytes       INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfers_batch ON transfers(batch_id);
`

// 📜 Record is one stored transfer
type Record struct {
	ID        int64
	BatchID   string
	Source    string
	Target    string
	Platform  string
	Action    string
	Status    string
	Error     string
	Bytes     int64
	Duration  time.Duration
	CreatedAt time.Time
}

// 📒 Ledger keeps the history of every transferred file in SQLite
type Ledger struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// 🏭 Open creates or opens the ledger database at path
func Open(ctx context.Context, path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("creating schema: %w", err)
	}

	return &Ledger{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file location
func (l *Ledger) Path() string {
	return l.path
}

// Close closes the underlying database
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// ✍️ Record stores one outcome under batchID
func (l *Ledger) Record(ctx context.Context, batchID string, o status.Outcome) error {
	msg := ""
	if o.Err != nil {
		msg = o.Err.Error()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO transfers (
			batch_id, source, target, platform, action, status, error, bytes, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID,
		o.Entry.Source.Path,
		o.Target,
		o.Entry.Platform,
		o.Entry.Action.String(),
		o.Status.String(),
		msg,
		o.Bytes,
		o.Duration.Milliseconds(),
		l.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Errorf("inserting transfer: %w", err)
	}
	return nil
}

// 📚 Recent returns up to limit records, newest first
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, batch_id, source, target, platform, action, status, error, bytes, duration_ms, created_at
		FROM transfers ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Errorf("querying transfers: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			durationMS int64
			created    string
		)
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Source, &r.Target, &r.Platform, &r.Action, &r.Status, &r.Error, &r.Bytes, &durationMS, &created); err != nil {
			return nil, errors.Errorf("scanning transfer: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("reading transfers: %w", err)
	}
	return out, nil
}
