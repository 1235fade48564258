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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockExecutor is a mock implementation of Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	result := m.Called(ctx, binary, args)
	return result.String(0), result.Error(1)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestOptimizer(t *testing.T) {
	tests := []struct {
		name        string
		binary      string
		mode        string
		wantBinary  string
		wantArgs    []string
		runErr      error
		errContains string
	}{
		{
			name:       "defaults",
			wantBinary: "chdman",
			wantArgs:   []string{"createcd", "-i", "/src/game.cue", "-o", "/dst/psx/game.chd.tmp", "-f"},
		},
		{
			name:       "custom_binary_and_mode",
			binary:     " /opt/mame/chdman ",
			mode:       "createdvd",
			wantBinary: "/opt/mame/chdman",
			wantArgs:   []string{"createdvd", "-i", "/src/game.cue", "-o", "/dst/psx/game.chd.tmp", "-f"},
		},
		{
			name:        "tool_failure",
			wantBinary:  "chdman",
			wantArgs:    []string{"createcd", "-i", "/src/game.cue", "-o", "/dst/psx/game.chd.tmp", "-f"},
			runErr:      &ExitError{Binary: "chdman", Code: 1, Output: "Error: file not found"},
			errContains: "optimizing disc image: chdman exited with status 1: Error: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			exec := &MockExecutor{}
			exec.On("Run", ctx, tt.wantBinary, tt.wantArgs).Return("output", tt.runErr)

			opt := NewOptimizer(tt.binary, tt.mode, WithExecutor(exec))
			assert.Equal(t, tt.wantBinary, opt.Binary())

			out, err := opt.Optimize(ctx, "/src/game.cue", "/dst/psx/game.chd.tmp")
			assert.Equal(t, "output", out)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Equal(t, "Error: file not found", Diagnostic(err))
			} else {
				require.NoError(t, err)
			}
			exec.AssertExpectations(t)
		})
	}
}

func TestCompressor(t *testing.T) {
	ctx := testContext(t)
	exec := &MockExecutor{}
	exec.On("Run", ctx, "7z", []string{"a", "-tzip", "-bd", "-y", "/dst/nes/mario.zip.tmp", "/src/mario.nes"}).Return("Everything is Ok", nil)

	comp := NewCompressor("", WithExecutor(exec))
	out, err := comp.Compress(ctx, "/src/mario.nes", "/dst/nes/mario.zip.tmp")
	require.NoError(t, err)
	assert.Equal(t, "Everything is Ok", out)
	exec.AssertExpectations(t)

	exec = &MockExecutor{}
	exec.On("Run", ctx, "7za", mock.Anything).Return("", errors.New("starting 7za: not found"))
	comp = NewCompressor("7za", WithExecutor(exec))
	_, err = comp.Compress(ctx, "/src/mario.nes", "/dst/nes/mario.zip.tmp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compressing file: starting 7za")
	assert.Empty(t, Diagnostic(err))
}

func TestCommandExecutor(t *testing.T) {
	ctx := testContext(t)

	out, err := commandExecutor{}.Run(ctx, "sh", []string{"-c", "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = commandExecutor{}.Run(ctx, "sh", []string{"-c", "echo broken >&2; exit 3"})
	require.Error(t, err)
	assert.Equal(t, "broken\n", out)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "should be an exit error")
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "sh exited with status 3: broken", err.Error())
	assert.Equal(t, "broken", Diagnostic(err))

	_, err = commandExecutor{}.Run(ctx, "romsend-definitely-missing-binary", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting romsend-definitely-missing-binary")
}

func TestExitErrorLastLines(t *testing.T) {
	err := &ExitError{Binary: "chdman", Code: 2, Output: "a\nb\nc\nd\n"}
	assert.Equal(t, "chdman exited with status 2: b | c | d", err.Error())

	err = &ExitError{Binary: "chdman", Code: 2}
	assert.Equal(t, "chdman exited with status 2", err.Error())
}

func TestCheck(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(file string) (string, error) {
		if file == "chdman" {
			return "/usr/bin/chdman", nil
		}
		return "", errors.New("not found")
	}

	reqs := Requirements(NewOptimizer("", ""), NewCompressor(""))
	reqs = append(reqs, Requirement{Name: "empty"})

	statuses := Check(reqs)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Available)
	assert.Equal(t, "/usr/bin/chdman", statuses[0].Path)

	assert.False(t, statuses[1].Available)
	assert.Equal(t, `binary "7z" not found`, statuses[1].Detail)

	assert.False(t, statuses[2].Available)
	assert.Equal(t, "command not configured", statuses[2].Detail)
}
