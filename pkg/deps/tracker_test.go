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

package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnChangeSeparatesRebuildFromRefresh(t *testing.T) {
	tr := New()
	tr.AddDep("a.scss", "_vars.scss", nil)
	tr.AddRef("b.scss", "_vars.scss", nil)
	tr.AddRef("c.scss", "other.scss", nil)

	rebuild, refresh := tr.OnChange("_vars.scss")
	assert.ElementsMatch(t, []string{"a.scss"}, rebuild)
	assert.ElementsMatch(t, []string{"b.scss"}, refresh)

	rebuild, refresh = tr.OnChange("other.scss")
	assert.Empty(t, rebuild)
	assert.ElementsMatch(t, []string{"c.scss"}, refresh)
}

func TestDepEdgeTakesPrecedenceOverRefEdge(t *testing.T) {
	tr := New()
	tr.AddDep("a.scss", "shared.scss", nil)
	tr.AddRef("a.scss", "shared.scss", nil)

	rebuild, refresh := tr.OnChange("shared.scss")
	assert.Equal(t, []string{"a.scss"}, rebuild)
	assert.Empty(t, refresh, "a source already slated for rebuild should not also appear in refresh")
}

func TestAddDepIsIdempotent(t *testing.T) {
	tr := New()
	tr.AddDep("a.scss", "_vars.scss", nil)
	tr.AddDep("a.scss", "_vars.scss", nil)

	assert.Len(t, tr.Deps("a.scss"), 1)
	rebuild, _ := tr.OnChange("_vars.scss")
	assert.Equal(t, []string{"a.scss"}, rebuild)
}

func TestRemoveClearsEdges(t *testing.T) {
	tr := New()
	tr.AddDep("a.scss", "_vars.scss", nil)
	tr.Remove("a.scss")

	assert.Empty(t, tr.Deps("a.scss"))
	rebuild, _ := tr.OnChange("_vars.scss")
	assert.Empty(t, rebuild)
}

func TestExportImportRoundTrip(t *testing.T) {
	tr := New()
	tr.AddDep("a.scss", "_vars.scss", nil)
	tr.AddRef("b.scss", "_vars.scss", nil)

	snap := tr.Export()
	restored := Import(snap)

	rebuild, refresh := restored.OnChange("_vars.scss")
	assert.Equal(t, []string{"a.scss"}, rebuild)
	assert.Equal(t, []string{"b.scss"}, refresh)
}
