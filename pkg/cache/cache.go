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

// Package cache persists the two keyed stores a build needs across runs:
// "output-map" (source path -> the output paths a build wrote for it, so
// clean can remove exactly those) and "dep-graph" (the watch-mode
// dependency tracker's edges, so the first watch after a restart is
// accurate).
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/deps"
)

// document is the on-disk JSON shape, stored as a single file under a
// tool-owned directory per spec.md §6.
type document struct {
	OutputMap map[string][]string `json:"output-map"`
	DepGraph  deps.Snapshot        `json:"dep-graph"`
}

// Cache is the in-memory, mutation-tracking view of document.
type Cache struct {
	mu   sync.Mutex
	path string

	outputs map[string][]string
	depSnap deps.Snapshot

	dirty bool
}

// New creates an empty Cache bound to a file path; call Load to populate it
// from a previous run, if one exists.
func New(path string) *Cache {
	return &Cache{
		path:    path,
		outputs: make(map[string][]string),
	}
}

// Load reads the cache file if present; a missing file is not an error —
// it just means this is the first run.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("reading cache file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Errorf("parsing cache file: %w", err)
	}
	if doc.OutputMap != nil {
		c.outputs = doc.OutputMap
	}
	c.depSnap = doc.DepGraph
	return nil
}

// Save flushes the cache to disk as JSON, creating the parent directory
// if necessary.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Errorf("creating cache directory: %w", err)
	}

	doc := document{OutputMap: c.outputs, DepGraph: c.depSnap}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Errorf("marshalling cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return errors.Errorf("writing cache file: %w", err)
	}
	c.dirty = false
	return nil
}

// RecordOutputs updates the output-map entry for a source path, called
// inside File.Save whenever a save succeeds.
func (c *Cache) RecordOutputs(sourcePath string, outputs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.outputs[sourcePath]
	for _, o := range outputs {
		found := false
		for _, e := range existing {
			if e == o {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, o)
		}
	}
	c.outputs[sourcePath] = existing
	c.dirty = true
}

// Outputs returns the outputs previously recorded for sourcePath.
func (c *Cache) Outputs(sourcePath string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.outputs[sourcePath]))
	copy(out, c.outputs[sourcePath])
	return out
}

// ForgetSource drops the output-map entry for sourcePath, returning the
// outputs it had recorded so the caller (clean mode) can delete them.
func (c *Cache) ForgetSource(sourcePath string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	outputs := c.outputs[sourcePath]
	delete(c.outputs, sourcePath)
	c.dirty = true
	return outputs
}

// Sources returns every source path the cache currently tracks outputs for.
func (c *Cache) Sources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.outputs))
	for src := range c.outputs {
		out = append(out, src)
	}
	return out
}

// DepGraph returns a *deps.Tracker restored from the persisted
// dependency-tracker snapshot, for use at watch startup.
func (c *Cache) DepGraph() *deps.Tracker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return deps.Import(c.depSnap)
}

// RecordDepGraph persists the current state of a dependency tracker, to be
// written out on the next Save.
func (c *Cache) RecordDepGraph(t *deps.Tracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depSnap = t.Export()
	c.dirty = true
}

// Dirty reports whether the cache has unsaved changes.
func (c *Cache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}
