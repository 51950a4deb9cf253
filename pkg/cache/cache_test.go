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

package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftbuild/weft/pkg/deps"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, c.Load())
	assert.Empty(t, c.Sources())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	c := New(path)
	c.RecordOutputs("a.js", "out/a.js", "out/a.js.map")

	tr := deps.New()
	tr.AddDep("a.js", "_shared.js", nil)
	c.RecordDepGraph(tr)

	require.NoError(t, c.Save())

	c2 := New(path)
	require.NoError(t, c2.Load())
	assert.Equal(t, []string{"out/a.js", "out/a.js.map"}, c2.Outputs("a.js"))

	restored := c2.DepGraph()
	rebuild, _ := restored.OnChange("_shared.js")
	assert.Equal(t, []string{"a.js"}, rebuild)
}

func TestForgetSourceReturnsPriorOutputsForClean(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))
	c.RecordOutputs("a.js", "out/a.js")

	outputs := c.ForgetSource("a.js")
	assert.Equal(t, []string{"out/a.js"}, outputs)
	assert.Empty(t, c.Outputs("a.js"))
}

func TestRecordOutputsDeduplicates(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache.json"))
	c.RecordOutputs("a.js", "out/a.js")
	c.RecordOutputs("a.js", "out/a.js")
	assert.Equal(t, []string{"out/a.js"}, c.Outputs("a.js"))
}
