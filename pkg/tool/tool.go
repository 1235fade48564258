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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Executor abstracts command execution for testability
type Executor interface {
	// Run executes binary with args and returns its combined output
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// 💥 ExitError is returned when a tool ran but exited non-zero
type ExitError struct {
	Binary string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Output)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Binary, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Binary, e.Code, lastLines(msg, 3))
}

// Diagnostic returns the diagnostic text carried by err, if any
func Diagnostic(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(exitErr.Output)
	}
	return ""
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &out
	cmd.Stderr = &out

	zerolog.Ctx(ctx).Debug().Str("binary", binary).Strs("args", args).Msg("running tool")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.String(), &ExitError{Binary: binary, Code: exitErr.ExitCode(), Output: out.String()}
		}
		return out.String(), errors.Errorf("starting %s: %w", binary, err)
	}
	return out.String(), nil
}

// Option configures a tool client
type Option func(*client)

// WithExecutor injects a custom executor (primarily for tests)
func WithExecutor(exec Executor) Option {
	return func(c *client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

type client struct {
	binary string
	exec   Executor
}

func newClient(binary, fallback string, opts ...Option) client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = fallback
	}
	c := client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return strings.Join(lines, " | ")
	}
	return strings.Join(lines[len(lines)-n:], " | ")
}
