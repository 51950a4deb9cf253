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
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/config"
	"github.com/weftbuild/weft/pkg/engine"
)

// ErrBuildFailed is returned (wrapped) when a build completes but leaves
// one or more files carrying an error-level diagnostic; main maps it to
// exit code 1.
var ErrBuildFailed = errors.New("build completed with errors")

// NewBuildCmd creates the build command: run the pipeline once and write
// outputs to the configured destination.
func NewBuildCmd(opts *Opts) *cobra.Command {
	var overwrite bool
	var inlineMaps bool
	var noMaps bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the pipeline once and write outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if overwrite {
				cfg.Overwrite = true
			}
			if inlineMaps {
				cfg.SourceMaps = true
				cfg.SourceMapsInline = true
			}
			if noMaps {
				cfg.SourceMaps = false
			}

			e, err := engine.New(engine.Options{Config: cfg, Logger: opts.Logger})
			if err != nil {
				return errors.Errorf("building engine: %w", err)
			}

			opts.Logger.Header("build")
			errCount, err := e.Run(ctx)
			if err != nil {
				return errors.Errorf("running pipeline: %w", err)
			}
			if errCount > 0 {
				opts.Logger.Errorf("%d file(s) finished with errors", errCount)
				return ErrBuildFailed
			}
			opts.Logger.Success("build complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing destination files unconditionally")
	cmd.Flags().BoolVar(&inlineMaps, "inline-maps", false, "emit source maps inline as data: URL comments")
	cmd.Flags().BoolVar(&noMaps, "no-maps", false, "disable source map emission")

	return cmd
}
