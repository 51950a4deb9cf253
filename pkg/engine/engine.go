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

// Package engine is the explicit, non-global analogue of a process-wide
// build engine: working mode, defaults, hooks, logger, cache, dependency
// tracker, and barrier all live on one Engine value, threaded through
// every File it constructs rather than read from package-level state.
package engine

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/barrier"
	"github.com/weftbuild/weft/pkg/cache"
	"github.com/weftbuild/weft/pkg/config"
	"github.com/weftbuild/weft/pkg/deps"
	"github.com/weftbuild/weft/pkg/log"
	"github.com/weftbuild/weft/pkg/plugin"
	"github.com/weftbuild/weft/pkg/vfile"
)

// Engine implements vfile.Context and coordinates one pipeline run's
// collaborators: config, cache, dependency tracker, barrier, logger, and
// the plugin loader.
type Engine struct {
	cfg *config.Config

	mode       vfile.Mode
	workingDir string
	encoding   vfile.Encoding
	overwrite  bool

	sourceMapEmit           bool
	sourceMapInline         bool
	sourceMapNames          bool
	sourceMapSourcesContent bool

	hooks vfile.Hooks

	logger  *log.Logger
	cache   *cache.Cache
	tracker *deps.Tracker
	barrier *barrier.Barrier
	plugins *plugin.Loader
}

// Options configures New.
type Options struct {
	Config     *config.Config
	WorkingDir string
	Logger     *log.Logger
	Hooks      vfile.Hooks
}

func parseMode(s string) vfile.Mode {
	switch s {
	case "preview":
		return vfile.ModePreview
	case "clean":
		return vfile.ModeClean
	case "watch":
		return vfile.ModeWatch
	default:
		return vfile.ModeBuild
	}
}

func parseEncoding(s string) vfile.Encoding {
	switch s {
	case "binary":
		return vfile.EncodingBinary
	case "base64":
		return vfile.EncodingBase64
	default:
		return vfile.EncodingUTF8
	}
}

// New builds an Engine from a loaded Config, opening (or creating) the
// on-disk cache and restoring the dependency tracker from it.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, errors.New("engine: Options.Config is required")
	}

	wd := opts.WorkingDir
	if wd == "" {
		wd = "."
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, zerolog.InfoLevel)
	}

	c := cache.New(filepath.Join(wd, ".weft", "cache.json"))
	if err := c.Load(); err != nil {
		return nil, errors.Errorf("loading cache: %w", err)
	}

	pluginCacheDir := filepath.Join(wd, ".weft", "plugins")

	return &Engine{
		cfg:        opts.Config,
		mode:       parseMode(opts.Config.Mode),
		workingDir: wd,
		encoding:   parseEncoding(opts.Config.DefaultEncoding),
		overwrite:  opts.Config.Overwrite,

		sourceMapEmit:           opts.Config.SourceMaps,
		sourceMapInline:         opts.Config.SourceMapsInline,
		sourceMapNames:          opts.Config.SourceMapsNames,
		sourceMapSourcesContent: opts.Config.SourceMapsSourcesContent,

		hooks: opts.Hooks,

		logger:  logger,
		cache:   c,
		tracker: c.DepGraph(),
		barrier: barrier.New().WithLogger(logger.Zerolog()),
		plugins: plugin.New(wd, pluginCacheDir),
	}, nil
}

// vfile.Context implementation.

func (e *Engine) Mode() vfile.Mode               { return e.mode }
func (e *Engine) WorkingDir() string             { return e.workingDir }
func (e *Engine) DefaultEncoding() vfile.Encoding { return e.encoding }
func (e *Engine) Overwrite() bool                 { return e.overwrite }

func (e *Engine) SourceMapEmit() bool           { return e.sourceMapEmit }
func (e *Engine) SourceMapInline() bool         { return e.sourceMapInline }
func (e *Engine) SourceMapNames() bool          { return e.sourceMapNames }
func (e *Engine) SourceMapSourcesContent() bool { return e.sourceMapSourcesContent }

func (e *Engine) Hooks() vfile.Hooks  { return e.hooks }
func (e *Engine) Deps() *deps.Tracker { return e.tracker }

func (e *Engine) RecordOutputs(srcPath string, outputs ...string) {
	e.cache.RecordOutputs(srcPath, outputs...)
}

// Logger returns the engine's logger, for CLI/watch-loop reporting.
func (e *Engine) Logger() *log.Logger { return e.logger }

// Barrier returns the engine's task barrier, for callers that need to
// sequence continuations after pipeline work settles.
func (e *Engine) Barrier() *barrier.Barrier { return e.barrier }

// SaveCache flushes the cache (output map and dependency graph) to disk;
// callers run this after a build/clean completes.
func (e *Engine) SaveCache() error {
	e.cache.RecordDepGraph(e.tracker)
	if err := e.cache.Save(); err != nil {
		return errors.Errorf("saving cache: %w", err)
	}
	return nil
}
