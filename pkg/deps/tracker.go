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

// Package deps implements the watch-mode dependency tracker: two directed
// edge sets keyed by source path ("deps", which force a full rebuild of
// the source when the target changes, and "refs", which only force a
// content-only refresh).
package deps

import (
	"sync"

	"github.com/weftbuild/weft/pkg/logentry"
)

// Edge is one dependency or reference edge, optionally carrying the log
// entry that explains why it was recorded.
type Edge struct {
	Target string
	Log    *logentry.Entry
}

// Tracker records file->file dep/ref edges and answers "what needs to
// happen when path P changes" queries for the watcher.
type Tracker struct {
	mu sync.RWMutex

	// forward[src] = target -> edge
	deps map[string]map[string]Edge
	refs map[string]map[string]Edge

	// reverse[target] = set of src
	depsByTarget map[string]map[string]struct{}
	refsByTarget map[string]map[string]struct{}
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		deps:         make(map[string]map[string]Edge),
		refs:         make(map[string]map[string]Edge),
		depsByTarget: make(map[string]map[string]struct{}),
		refsByTarget: make(map[string]map[string]struct{}),
	}
}

// AddDep records that src requires a full rebuild whenever target changes.
// Idempotent: adding the same (src, target) edge twice has no additional
// effect beyond updating the recorded log entry.
func (t *Tracker) AddDep(src, target string, log *logentry.Entry) {
	t.add(t.deps, t.depsByTarget, src, target, log)
}

// AddRef records that src needs only a content-only refresh whenever
// target changes.
func (t *Tracker) AddRef(src, target string, log *logentry.Entry) {
	t.add(t.refs, t.refsByTarget, src, target, log)
}

func (t *Tracker) add(forward map[string]map[string]Edge, reverse map[string]map[string]struct{}, src, target string, log *logentry.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if forward[src] == nil {
		forward[src] = make(map[string]Edge)
	}
	forward[src][target] = Edge{Target: target, Log: log}

	if reverse[target] == nil {
		reverse[target] = make(map[string]struct{})
	}
	reverse[target][src] = struct{}{}
}

// Deps returns the dependency edges recorded for src.
func (t *Tracker) Deps(src string) []Edge {
	return snapshot(t, t.deps, src)
}

// Refs returns the reference edges recorded for src.
func (t *Tracker) Refs(src string) []Edge {
	return snapshot(t, t.refs, src)
}

func snapshot(t *Tracker, forward map[string]map[string]Edge, src string) []Edge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	edges := forward[src]
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, e)
	}
	return out
}

// OnChange answers a file-system event for path. It returns the sources
// that require a full rebuild (because path is one of their deps) and the
// sources that only need a content-only refresh (because path is one of
// their refs, and is not already covered by a dep edge).
func (t *Tracker) OnChange(path string) (rebuild, refresh []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rebuildSet := make(map[string]struct{})
	for src := range t.depsByTarget[path] {
		rebuildSet[src] = struct{}{}
		rebuild = append(rebuild, src)
	}
	for src := range t.refsByTarget[path] {
		if _, already := rebuildSet[src]; already {
			continue
		}
		refresh = append(refresh, src)
	}
	return rebuild, refresh
}

// Remove clears every edge originating from src, e.g. before it is
// reprocessed from scratch.
func (t *Tracker) Remove(src string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for target := range t.deps[src] {
		delete(t.depsByTarget[target], src)
	}
	for target := range t.refs[src] {
		delete(t.refsByTarget[target], src)
	}
	delete(t.deps, src)
	delete(t.refs, src)
}

// Snapshot captures the whole edge set for persistence (pkg/cache).
type Snapshot struct {
	Deps map[string][]string `json:"deps"`
	Refs map[string][]string `json:"refs"`
}

// Export produces a persistable snapshot (log entries are not persisted —
// they are reconstructed diagnostics, not durable state).
func (t *Tracker) Export() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{Deps: make(map[string][]string), Refs: make(map[string][]string)}
	for src, edges := range t.deps {
		for target := range edges {
			snap.Deps[src] = append(snap.Deps[src], target)
		}
	}
	for src, edges := range t.refs {
		for target := range edges {
			snap.Refs[src] = append(snap.Refs[src], target)
		}
	}
	return snap
}

// Import restores a tracker from a persisted snapshot, so that the first
// watch after a restart has accurate edges without waiting for a full
// rebuild.
func Import(snap Snapshot) *Tracker {
	t := New()
	for src, targets := range snap.Deps {
		for _, target := range targets {
			t.AddDep(src, target, nil)
		}
	}
	for src, targets := range snap.Refs {
		for _, target := range targets {
			t.AddRef(src, target, nil)
		}
	}
	return t
}
