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

package tool

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// DefaultSevenZip is the generic compressor binary looked up on PATH
const DefaultSevenZip = "7z"

// 📦 Compressor packs a single file into a zip archive
type Compressor struct {
	client
}

// NewCompressor constructs a 7z client; an empty binary falls back to 7z
func NewCompressor(binary string, opts ...Option) *Compressor {
	return &Compressor{client: newClient(binary, DefaultSevenZip, opts...)}
}

// Binary returns the configured binary
func (c *Compressor) Binary() string {
	return c.binary
}

// Compress adds src to a zip-format archive at dst
func (c *Compressor) Compress(ctx context.Context, src, dst string) (string, error) {
	args := []string{"a", "-tzip", "-bd", "-y", dst, src}
	out, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		return out, errors.Errorf("compressing file: %w", err)
	}
	return out, nil
}
