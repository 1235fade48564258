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

	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/plan"
)

// NewPlanCmd creates a new plan command
func NewPlanCmd(opts *opts.RootOpts) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "plan [sources...]",
		Short: "Show what send would do without writing anything",
		Long: `Plan classifies every source file and prints the action send would take.
Directories are scanned for known ROM extensions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			prefs, err := sel.preferences(opts.Config)
			if err != nil {
				return err
			}
			files, err := sel.sources(ctx, args, opts.Config)
			if err != nil {
				return err
			}

			entries := plan.PlanAll(files, prefs)
			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(entries))
			return nil
		},
	}

	sel.addFlags(cmd)
	return cmd
}

func renderPlan(entries []plan.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Source.Name,
			e.Platform,
			e.Action.String(),
			filepath.Join(e.Platform, e.TargetName),
		})
	}
	return renderTable([]string{"Source", "Platform", "Action", "Target"}, rows, nil)
}
