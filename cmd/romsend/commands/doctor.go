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

	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/destination"
	"github.com/walteh/romsend/pkg/log"
	"github.com/walteh/romsend/pkg/tool"
)

// NewDoctorCmd creates a new doctor command
func NewDoctorCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and the configured destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			console := log.FromContext(cmd.Context())

			reqs := tool.Requirements(
				tool.NewOptimizer(cfg.Tools.Chdman, cfg.Tools.ChdmanMode),
				tool.NewCompressor(cfg.Tools.SevenZip),
			)
			fmt.Fprintln(cmd.OutOrStdout(), renderDoctor(tool.Check(reqs)))

			if cfg.Location() != "" {
				console.Infof("config: %s", cfg.Location())
			}

			switch {
			case cfg.Destination == "":
				console.Warning("no destination configured, pass --to to send")
			default:
				root, err := destination.Resolve(cfg.Destination)
				if err != nil {
					console.Errorf("destination: %v", err)
				} else {
					console.Successf("destination %s is available", root)
				}
			}
			return nil
		},
	}
	return cmd
}

func renderDoctor(results []tool.Status) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		state := "ok"
		detail := r.Path
		if !r.Available {
			state = "missing"
			detail = r.Detail
		}
		rows = append(rows, []string{r.Name, state, detail, r.Description})
	}
	return renderTable([]string{"Tool", "Status", "Path", "Used for"}, rows, nil)
}
