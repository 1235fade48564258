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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/catalog"
	"github.com/walteh/romsend/pkg/plan"
)

// NewSystemsCmd creates a new systems command
func NewSystemsCmd(opts *opts.RootOpts) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "systems",
		Short: "List known platforms and how their files are handled",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := sel.preferences(opts.Config)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSystems(prefs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sel.compress, "compress", nil, "platforms to compress (overrides config)")
	cmd.Flags().BoolVar(&sel.noCompress, "no-compress", false, "copy every file as is")
	return cmd
}

func renderSystems(prefs plan.Preferences) string {
	platforms := catalog.KnownPlatforms()
	rows := make([][]string, 0, len(platforms))
	for _, p := range platforms {
		handling := "copy"
		if prefs.Has(p) {
			handling = "zip"
			if catalog.IsOptimizable(p) {
				handling = "chd (discs), zip"
			}
		}
		rows = append(rows, []string{
			p,
			strings.Join(catalog.ExtensionsFor(p), " "),
			yesNo(catalog.IsOptimizable(p)),
			handling,
		})
	}
	return renderTable([]string{"Platform", "Extensions", "CHD", "Handling"}, rows, nil)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
