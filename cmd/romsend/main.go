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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/romsend/cmd/romsend/commands"
	"github.com/walteh/romsend/cmd/romsend/opts"
	"github.com/walteh/romsend/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootOpts := &opts.RootOpts{}
	rootCmd := newRootCmd(rootOpts)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.New(os.Stderr, zerolog.Nop()).Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(rootOpts *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "romsend",
		Short: "Sort, compress and send ROM files to a console share",
		Long: `romsend sorts game ROMs into per-platform folders on a destination such
as a mounted handheld share. Disc images can be converted to CHD and other
files zipped, per platform.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(rootOpts.Debug)
			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), logger))
			cmd.SetContext(ctx)

			return rootOpts.Load(ctx)
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewSendCmd(rootOpts),
		commands.NewPlanCmd(rootOpts),
		commands.NewSystemsCmd(rootOpts),
		commands.NewHistoryCmd(rootOpts),
		commands.NewDoctorCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}
