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

package vfile

import (
	"sync"

	"github.com/weftbuild/weft/pkg/deps"
)

// fakeContext is a minimal Context for tests: no config layer, no cache,
// just the defaults a test case needs plus an in-memory record of
// RecordOutputs calls.
type fakeContext struct {
	mu sync.Mutex

	mode      Mode
	wd        string
	encoding  Encoding
	overwrite bool

	emit           bool
	inline         bool
	names          bool
	sourcesContent bool

	hooks Hooks
	tr    *deps.Tracker

	outputs map[string][]string
}

func newFakeContext(wd string) *fakeContext {
	return &fakeContext{
		wd:       wd,
		encoding: EncodingUTF8,
		names:    true,
		tr:       deps.New(),
		outputs:  make(map[string][]string),
	}
}

func (c *fakeContext) Mode() Mode               { return c.mode }
func (c *fakeContext) WorkingDir() string       { return c.wd }
func (c *fakeContext) DefaultEncoding() Encoding { return c.encoding }
func (c *fakeContext) Overwrite() bool          { return c.overwrite }

func (c *fakeContext) SourceMapEmit() bool          { return c.emit }
func (c *fakeContext) SourceMapInline() bool        { return c.inline }
func (c *fakeContext) SourceMapNames() bool         { return c.names }
func (c *fakeContext) SourceMapSourcesContent() bool { return c.sourcesContent }

func (c *fakeContext) Hooks() Hooks        { return c.hooks }
func (c *fakeContext) Deps() *deps.Tracker { return c.tr }

func (c *fakeContext) RecordOutputs(srcPath string, outputs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[srcPath] = append(c.outputs[srcPath], outputs...)
}
