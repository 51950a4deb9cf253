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

package filelist

import (
	"testing"

	"github.com/weftbuild/weft/pkg/deps"
	"github.com/weftbuild/weft/pkg/vfile"
)

// fakeContext is the minimal vfile.Context a filelist test needs; it
// never touches disk, which is enough since these tests exercise pipeline
// wiring, not File's own load/save behavior (covered in package vfile).
type fakeContext struct {
	wd string
	tr *deps.Tracker
}

func newFakeContext(t *testing.T) *fakeContext {
	t.Helper()
	return &fakeContext{wd: t.TempDir(), tr: deps.New()}
}

func (c *fakeContext) Mode() vfile.Mode               { return vfile.ModeBuild }
func (c *fakeContext) WorkingDir() string             { return c.wd }
func (c *fakeContext) DefaultEncoding() vfile.Encoding { return vfile.EncodingUTF8 }
func (c *fakeContext) Overwrite() bool                { return false }

func (c *fakeContext) SourceMapEmit() bool            { return false }
func (c *fakeContext) SourceMapInline() bool          { return false }
func (c *fakeContext) SourceMapNames() bool           { return true }
func (c *fakeContext) SourceMapSourcesContent() bool  { return false }

func (c *fakeContext) Hooks() vfile.Hooks       { return vfile.Hooks{} }
func (c *fakeContext) Deps() *deps.Tracker      { return c.tr }
func (c *fakeContext) RecordOutputs(string, ...string) {}
