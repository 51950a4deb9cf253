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
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/weftbuild/weft/cmd/weft/commands"
	"github.com/weftbuild/weft/pkg/log"
)

var (
	configFile string
	debug      bool
)

// addRootFlags adds the flags shared by every subcommand.
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "weft.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// populateOpts fills in opts from the parsed flag values; called from
// PersistentPreRunE, after cobra has parsed the command line, so
// --config/--debug take effect regardless of which subcommand ran.
func populateOpts(opts *commands.Opts) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	opts.ConfigFile = configFile
	opts.Logger = log.New(os.Stderr, level)
}
