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

// Package commands holds the weft CLI's subcommands.
package commands

import "github.com/weftbuild/weft/pkg/log"

// Opts contains options shared by every subcommand. Each subcommand loads
// its own *config.Config and builds its own *engine.Engine, since flags
// like --overwrite only make sense on some subcommands.
type Opts struct {
	ConfigFile string
	Logger     *log.Logger
}
