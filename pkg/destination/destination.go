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

package destination

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotFound is returned when a destination is empty, missing or not a directory
	ErrNotFound = errors.Base("destination not found")
	// ErrBusy is returned when another batch already writes to the same destination
	ErrBusy = errors.Base("destination busy")
)

const lockFileSuffix = ".lock"

// 📍 Resolve turns a user supplied destination into an absolute, existing directory
func Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Errorf("%w: no destination given", ErrNotFound)
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Errorf("expanding destination %q: %w", path, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Errorf("resolving destination %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", errors.Errorf("checking destination %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%w: %s is not a directory", ErrNotFound, abs)
	}

	return abs, nil
}

// DefaultLockDir is where destination locks live when no directory is configured
func DefaultLockDir() string {
	return filepath.Join(os.TempDir(), "romsend-locks")
}

// 🔒 Lock guards a destination root against concurrent batches
type Lock struct {
	root string
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for root inside lockDir
func LockPath(root, lockDir string) string {
	if lockDir == "" {
		lockDir = DefaultLockDir()
	}
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+lockFileSuffix)
}

// 🔒 Acquire takes the lock for root without waiting
func Acquire(ctx context.Context, root, lockDir string) (*Lock, error) {
	path := LockPath(root, lockDir)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating lock directory: %w", err)
	}

	l := &Lock{root: root, path: path, lock: flock.New(path)}

	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, errors.Errorf("acquiring lock on %s: %w", path, err)
	}
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrBusy, root)
	}

	zerolog.Ctx(ctx).Debug().Str("destination", root).Str("lock", path).Msg("acquired destination lock")
	return l, nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.path
}

// Release gives the lock back; releasing twice is a no-op
func (l *Lock) Release(ctx context.Context) error {
	if err := l.lock.Unlock(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("releasing lock on %s: %w", l.path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("destination", l.root).Msg("released destination lock")
	return nil
}
