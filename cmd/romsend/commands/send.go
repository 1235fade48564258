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

package commands

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/ledger"
	"github.com/walteh/romsend/pkg/log"
	"github.com/walteh/romsend/pkg/operation"
	"github.com/walteh/romsend/pkg/plan"
	"github.com/walteh/romsend/pkg/status"
	"github.com/walteh/romsend/pkg/tool"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewSendCmd creates a new send command
func NewSendCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		sel       selection
		dest      string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "send [sources...]",
		Short: "Sort ROM files into platform folders on a destination",
		Long: `Send classifies each source file by extension and places it under
<destination>/<platform>/. It will:
1. Convert disc images to CHD for enabled platforms that support it
2. Zip other files for enabled platforms
3. Copy everything else, including already compressed files, as is`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "send").Logger().WithContext(cmd.Context())
			console := log.FromContext(ctx)
			cfg := opts.Config

			if dest == "" {
				dest = cfg.Destination
			}

			prefs, err := sel.preferences(cfg)
			if err != nil {
				return err
			}
			files, err := sel.sources(ctx, args, cfg)
			if err != nil {
				return err
			}

			optimizer := tool.NewOptimizer(cfg.Tools.Chdman, cfg.Tools.ChdmanMode)
			compressor := tool.NewCompressor(cfg.Tools.SevenZip)
			warnMissingTools(console, plan.PlanAll(files, prefs), optimizer, compressor)

			runnerOpts := []operation.RunnerOption{operation.WithLockDir(cfg.LockDir)}
			if !noHistory && !cfg.NoHistory && cfg.History != "" {
				l, err := ledger.Open(ctx, cfg.History)
				if err != nil {
					console.Warningf("history disabled: %v", err)
				} else {
					defer l.Close()
					zerolog.Ctx(ctx).Debug().Str("path", l.Path()).Msg("recording history")
					runnerOpts = append(runnerOpts, operation.WithRecorder(l))
				}
			}

			events := status.NewChannelReporter(16)
			runner := operation.NewRunner(operation.NewExecutor(optimizer, compressor), runnerOpts...)

			batch, err := runner.Start(ctx, operation.Request{
				Sources:     files,
				Destination: dest,
				Preferences: prefs,
				Reporter:    events,
			})
			if err != nil {
				if errors.Is(err, operation.ErrDestinationNotFound) {
					return errors.Errorf("destination is not available, is the share mounted? %w", err)
				}
				return errors.Errorf("starting transfer: %w", err)
			}

			console.StartBatch(ctx, log.BatchInfo{
				ID:          batch.ID,
				Destination: batch.Destination,
				Files:       len(batch.Entries),
			})

			bar := newProgressBar(cmd.ErrOrStderr())
			if bar != nil {
				console.WithProgress(func(percent int) { _ = bar.Set(percent) })
			}

			var summary status.Summary
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return render(gctx, events, console, bar)
			})
			g.Go(func() error {
				summary = batch.Wait()
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if summary.Failed > 0 {
				return errors.Errorf("%d of %d files failed", summary.Failed, summary.Total)
			}
			if summary.Cancelled {
				return errors.New("transfer cancelled")
			}
			return nil
		},
	}

	sel.addFlags(cmd)
	cmd.Flags().StringVarP(&dest, "to", "t", "", "destination root (overrides config)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this batch in the history ledger")
	return cmd
}

// newProgressBar returns a bar on out when it is a terminal, nil otherwise
func newProgressBar(out io.Writer) *progressbar.ProgressBar {
	if !isTerminal(out) {
		return nil
	}
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("sending"),
		progressbar.OptionClearOnFinish(),
	)
}

// render drains batch events into the console. Progress reaches the bar
// through the console's progress hook; bar may be nil. It returns once the
// completion event has been handled.
func render(ctx context.Context, events *status.ChannelReporter, console *log.Logger, bar *progressbar.ProgressBar) error {
	for ev := range events.Events() {
		switch ev.Kind {
		case status.EventLog:
			if bar != nil {
				_ = bar.Clear()
			}
			console.OnLog(ctx, ev.Line)
		case status.EventProgress:
			console.OnProgress(ctx, ev.Percent)
		case status.EventComplete:
			if bar != nil {
				_ = bar.Finish()
			}
			console.OnComplete(ctx, ev.Summary)
		}
	}
	return nil
}

// warnMissingTools tells the user up front when entries need a tool that is not installed
func warnMissingTools(console *log.Logger, entries []plan.Entry, optimizer *tool.Optimizer, compressor *tool.Compressor) {
	need := map[plan.Action]bool{}
	for _, e := range entries {
		need[e.Action] = true
	}

	for _, st := range tool.Check(tool.Requirements(optimizer, compressor)) {
		if st.Available {
			continue
		}
		if (st.Name == "chdman" && need[plan.ActionOptimize]) || (st.Name == "7z" && need[plan.ActionArchive]) {
			console.Warningf("%s: %s, affected files will fail", st.Name, st.Detail)
		}
	}
}
