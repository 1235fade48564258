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
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/ledger"
	"github.com/walteh/romsend/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewHistoryCmd creates a new history command
func NewHistoryCmd(opts *opts.RootOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently transferred files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.Config.NoHistory || opts.Config.History == "" {
				return errors.New("history is disabled in the config")
			}

			l, err := ledger.Open(ctx, opts.Config.History)
			if err != nil {
				return errors.Errorf("opening history: %w", err)
			}
			defer l.Close()

			records, err := l.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				log.FromContext(ctx).Infof("no transfers recorded yet in %s", l.Path())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}

func renderHistory(records []ledger.Record, now time.Time) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		batch := r.BatchID
		if len(batch) > 8 {
			batch = batch[:8]
		}
		rows = append(rows, []string{
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			batch,
			filepath.Base(r.Source),
			r.Platform,
			r.Action,
			r.Status,
			humanize.Bytes(uint64(max(r.Bytes, 0))),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"When", "Batch", "Source", "Platform", "Action", "Status", "Size", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}
