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

package replace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftbuild/weft/pkg/deps"
	"github.com/weftbuild/weft/pkg/filelist"
	"github.com/weftbuild/weft/pkg/vfile"
)

type testContext struct {
	wd string
	tr *deps.Tracker
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()
	return &testContext{wd: t.TempDir(), tr: deps.New()}
}

func (c *testContext) Mode() vfile.Mode               { return vfile.ModeBuild }
func (c *testContext) WorkingDir() string             { return c.wd }
func (c *testContext) DefaultEncoding() vfile.Encoding { return vfile.EncodingUTF8 }
func (c *testContext) Overwrite() bool                { return false }
func (c *testContext) SourceMapEmit() bool            { return false }
func (c *testContext) SourceMapInline() bool          { return false }
func (c *testContext) SourceMapNames() bool           { return true }
func (c *testContext) SourceMapSourcesContent() bool  { return false }
func (c *testContext) Hooks() vfile.Hooks             { return vfile.Hooks{} }
func (c *testContext) Deps() *deps.Tracker            { return c.tr }
func (c *testContext) RecordOutputs(string, ...string) {}

func TestNewAppliesEachRuleInOrder(t *testing.T) {
	ctx := newTestContext(t)
	f, err := vfile.New(ctx, "", "a.txt", "hello world")
	require.NoError(t, err)

	p := New([]Rule{{Old: "hello", New: "goodbye"}, {Old: "world", New: "earth"}})

	list := filelist.New()
	derived := list.Pipe(p, nil)
	list.Add(f)
	list.End()

	_ = derived
	content, err := f.Content()
	require.NoError(t, err)
	assert.Equal(t, "goodbye earth", content)
}

func TestRuleScopedToFileGlobIsSkippedElsewhere(t *testing.T) {
	ctx := newTestContext(t)
	f, err := vfile.New(ctx, "", "a.txt", "hello")
	require.NoError(t, err)

	p := New([]Rule{{Old: "hello", New: "bye", File: "*.js"}})
	list := filelist.New()
	list.Pipe(p, nil)
	list.Add(f)
	list.End()

	content, err := f.Content()
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
}

func TestFromOptionsDecodesReplacementsFromYAMLShape(t *testing.T) {
	ctx := newTestContext(t)
	f, err := vfile.New(ctx, "", "a.txt", "foo bar")
	require.NoError(t, err)

	opts := filelist.Options{
		"replacements": []any{
			map[string]any{"old": "foo", "new": "baz"},
		},
	}
	p := FromOptions(opts)

	list := filelist.New()
	list.Pipe(p, nil)
	list.Add(f)
	list.End()

	content, err := f.Content()
	require.NoError(t, err)
	assert.Equal(t, "baz bar", content)
}

func TestFromOptionsMissingOldRecordsDiagnostic(t *testing.T) {
	ctx := newTestContext(t)
	f, err := vfile.New(ctx, "", "a.txt", "foo")
	require.NoError(t, err)

	opts := filelist.Options{
		"replacements": []any{
			map[string]any{"new": "baz"},
		},
	}
	p := FromOptions(opts)

	list := filelist.New()
	list.Pipe(p, nil)
	list.Add(f)
	list.End()

	assert.Equal(t, 1, f.ErrorCount())
}
