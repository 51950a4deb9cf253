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

package engine

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/config"
	"github.com/weftbuild/weft/pkg/filelist"
	"github.com/weftbuild/weft/pkg/matcher"
	"github.com/weftbuild/weft/pkg/processors/replace"
	"github.com/weftbuild/weft/pkg/vfile"
)

// Pipeline scans srcGlobs under the engine's working directory and
// returns a root FileList populated with one File per unique match,
// mirroring spec.md §2's "a root File List is produced by scanning
// globs."
func (e *Engine) Pipeline(srcGlobs ...string) *filelist.FileList {
	list := filelist.New()

	seen := make(map[string]bool)
	for _, pattern := range srcGlobs {
		matches, err := matcher.ExpandGlob(e.workingDir, pattern)
		if err != nil {
			e.logger.Warningf("expanding glob %q: %s", pattern, err)
			continue
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			f, err := vfile.New(e, m, m, nil)
			if err != nil {
				e.logger.Warningf("constructing file for %q: %s", m, err)
				continue
			}
			list.Add(f)
		}
	}
	list.End()
	return list
}

func (e *Engine) resolveProcessor(ctx context.Context, step config.Step) (filelist.Processor, error) {
	switch step.Name {
	case "replace":
		return replace.FromOptions(step.Options), nil
	default:
		fn, err := e.plugins.Load(ctx, step.Name)
		if err != nil {
			return filelist.Processor{}, errors.Errorf("resolving processor %q: %w", step.Name, err)
		}
		return fn(step.Options), nil
	}
}

// Run executes the engine's configured pipeline once: scan, pipe through
// every configured step (each optionally narrowed to files matching its
// Pattern), then Dest to the configured destination. In clean mode it does
// not scan or pipe at all; see runClean.
//
// It returns the total diagnostic error count across every file that
// reached the end of the pipeline, and flushes the cache to disk before
// returning.
func (e *Engine) Run(ctx context.Context) (int, error) {
	if e.cfg == nil {
		return 0, errors.New("engine: no configuration loaded")
	}

	if e.mode == vfile.ModeClean {
		return e.runClean(ctx)
	}

	current := e.Pipeline(e.cfg.Src...)
	for _, step := range e.cfg.Pipeline {
		if len(step.Pattern) > 0 {
			current = current.Src(step.Pattern...)
		}
		proc, err := e.resolveProcessor(ctx, step)
		if err != nil {
			return 0, err
		}
		current = current.Pipe(proc, step.Options)
	}

	final := current.Dest(e.cfg.Destination)

	files, err := waitForEnd(ctx, final)
	if err != nil {
		return 0, err
	}

	errCount := 0
	for _, f := range files {
		errCount += f.ErrorCount()
		for _, d := range f.Diagnostics() {
			if d.Level.String() == "error" {
				e.logger.Error(d.Data)
			} else if d.Level.String() == "warning" {
				e.logger.Warning(d.Data)
			}
		}
	}

	if err := e.SaveCache(); err != nil {
		return errCount, err
	}
	return errCount, nil
}

// runClean deletes exactly the outputs a previous build recorded, per
// spec.md §4.6, rather than rescanning the current source tree: a source
// glob scan only ever produces a File for a path that still exists on
// disk, so a source renamed or deleted since the last build would never
// reach Dest/saveClean and its stale output would never be removed. The
// cache's output-map is the authoritative record of what a build wrote, so
// clean walks it directly and forgets each source once its outputs are
// gone.
func (e *Engine) runClean(ctx context.Context) (int, error) {
	errCount := 0

	for _, src := range e.cache.Sources() {
		if err := ctx.Err(); err != nil {
			return errCount, err
		}

		for _, out := range e.cache.ForgetSource(src) {
			if err := vfile.DeleteOutput(out); err != nil {
				errCount++
				e.logger.Error(err.Error())
			}
		}
	}

	if err := e.SaveCache(); err != nil {
		return errCount, err
	}
	return errCount, nil
}

func waitForEnd(ctx context.Context, list *filelist.FileList) ([]*vfile.File, error) {
	done := make(chan []*vfile.File, 1)
	list.OnEnd(func(files []*vfile.File) { done <- files })

	select {
	case files := <-done:
		return files, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
