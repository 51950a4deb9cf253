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
	"time"

	"github.com/weftbuild/weft/pkg/fsys"
	"github.com/weftbuild/weft/pkg/matcher"
	"github.com/weftbuild/weft/pkg/pathutil"
)

// Watch runs the pipeline once, then polls every interval for modified
// source files and re-runs the pipeline whenever any change. No example
// in the corpus carries a filesystem-event dependency, so changes are
// detected the same way spec.md's own watcher boundary leaves open: by
// asking the filesystem, not by subscribing to it.
func (e *Engine) Watch(ctx context.Context, interval time.Duration) error {
	if _, err := e.Run(ctx); err != nil {
		return err
	}

	times, err := e.snapshotModTimes()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			next, err := e.snapshotModTimes()
			if err != nil {
				e.logger.Warningf("polling for changes: %s", err)
				continue
			}

			changed := diffModTimes(times, next)
			times = next
			if len(changed) == 0 {
				continue
			}

			for _, path := range changed {
				e.tracker.OnChange(path)
			}

			e.logger.Infof("%d file(s) changed, rebuilding", len(changed))
			if _, err := e.Run(ctx); err != nil {
				e.logger.Errorf("rebuild failed: %s", err)
			}
		}
	}
}

func (e *Engine) snapshotModTimes() (map[string]int64, error) {
	times := make(map[string]int64)
	seen := make(map[string]bool)

	for _, pattern := range e.cfg.Src {
		matches, err := matcher.ExpandGlob(e.workingDir, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			abs := pathutil.ResolvePath(e.workingDir, m)
			t, err := fsys.ModTime(abs)
			if err != nil {
				continue
			}
			times[abs] = t
		}
	}
	return times, nil
}

func diffModTimes(before, after map[string]int64) []string {
	var changed []string
	for path, t := range after {
		prev, ok := before[path]
		if !ok || prev != t {
			changed = append(changed, path)
		}
	}
	for path := range before {
		if _, ok := after[path]; !ok {
			changed = append(changed, path)
		}
	}
	return changed
}
