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
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/weftbuild/weft/cmd/weft/commands"
	"github.com/weftbuild/weft/pkg/log"
)

func main() {
	ctx := context.Background()

	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "A rule-based incremental build engine",
		Long: `weft scans source files, pipes them through a configured chain of
processors, and writes the results to a destination directory, tracking
dependencies and caching outputs across runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRootFlags(rootCmd)

	opts := &commands.Opts{Logger: log.New(os.Stderr, zerolog.InfoLevel)}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		populateOpts(opts)
		return nil
	}

	rootCmd.AddCommand(
		commands.NewBuildCmd(opts),
		commands.NewWatchCmd(opts),
		commands.NewCleanCmd(opts),
		commands.NewPreviewCmd(opts),
	)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		os.Exit(0)
	}

	if errors.Is(err, commands.ErrBuildFailed) {
		opts.Logger.Error(err.Error())
		os.Exit(1)
	}

	opts.Logger.Error(err.Error())
	os.Exit(2)
}
