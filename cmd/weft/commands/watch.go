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
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/config"
	"github.com/weftbuild/weft/pkg/engine"
)

// NewWatchCmd creates the watch command: run the pipeline once, then poll
// for changed source files and rebuild.
func NewWatchCmd(opts *Opts) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever a source file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx, opts.ConfigFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			cfg.Mode = "watch"

			e, err := engine.New(engine.Options{Config: cfg, Logger: opts.Logger})
			if err != nil {
				return errors.Errorf("building engine: %w", err)
			}

			opts.Logger.Header("watch")
			if err := e.Watch(ctx, interval); err != nil {
				return errors.Errorf("watching: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "polling interval for change detection")

	return cmd
}
