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

// NewPreviewCmd creates the preview command: run the full pipeline and
// report diagnostics without writing anything to the destination.
func NewPreviewCmd(opts *Opts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the pipeline and report what would change, without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			cfg.Mode = "preview"

			e, err := engine.New(engine.Options{Config: cfg, Logger: opts.Logger})
			if err != nil {
				return errors.Errorf("building engine: %w", err)
			}

			opts.Logger.Header("preview")
			errCount, err := e.Run(ctx)
			if err != nil {
				return errors.Errorf("running pipeline: %w", err)
			}
			if errCount > 0 {
				opts.Logger.Errorf("%d file(s) would finish with errors", errCount)
				return ErrBuildFailed
			}
			opts.Logger.Success("preview complete, nothing written")
			return nil
		},
	}

	return cmd
}
