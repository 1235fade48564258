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
	"strings"

	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultChdman is the disc-image optimizer binary looked up on PATH
	DefaultChdman = "chdman"
	// DefaultChdmanMode is the chdman verb used for disc images
	DefaultChdmanMode = "createcd"
)

// 💿 Optimizer converts a raw disc image into a compact CHD archive
type Optimizer struct {
	client
	mode string
}

// NewOptimizer constructs a chdman client; empty values fall back to defaults
func NewOptimizer(binary, mode string, opts ...Option) *Optimizer {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = DefaultChdmanMode
	}
	return &Optimizer{
		client: newClient(binary, DefaultChdman, opts...),
		mode:   mode,
	}
}

// Binary returns the configured binary
func (o *Optimizer) Binary() string {
	return o.binary
}

// Optimize writes a CHD image of src to dst, overwriting dst
func (o *Optimizer) Optimize(ctx context.Context, src, dst string) (string, error) {
	args := []string{o.mode, "-i", src, "-o", dst, "-f"}
	out, err := o.exec.Run(ctx, o.binary, args)
	if err != nil {
		return out, errors.Errorf("optimizing disc image: %w", err)
	}
	return out, nil
}
