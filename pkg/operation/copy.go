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
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📋 copyFile streams src into dst through a temp file, keeping the source
// permissions and timestamps
func copyFile(ctx context.Context, src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, errors.Errorf("reading source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Errorf("source %s is not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp := dst + tempSuffix
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, errors.Errorf("creating temp file: %w", err)
	}

	written, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return 0, errors.Errorf("copying bytes: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmp, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Chtimes(tmp, accessTime(info), info.ModTime()); err != nil {
		// some mounted shares refuse timestamp changes; the bytes are still good
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", dst).Msg("could not preserve timestamps")
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, errors.Errorf("moving copy into place: %w", err)
	}

	return written, nil
}
