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

// NewCleanCmd creates the clean command: run the pipeline in clean mode,
// removing every previously generated output instead of writing new ones.
func NewCleanCmd(opts *Opts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove all previously generated outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			cfg.Mode = "clean"

			e, err := engine.New(engine.Options{Config: cfg, Logger: opts.Logger})
			if err != nil {
				return errors.Errorf("building engine: %w", err)
			}

			opts.Logger.Header("clean")
			if _, err := e.Run(ctx); err != nil {
				return errors.Errorf("running pipeline: %w", err)
			}
			opts.Logger.Success("clean complete")
			return nil
		},
	}

	return cmd
}
