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

package sourcemap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleBuilder() *Builder {
	b := NewBuilder()
	srcIdx := b.AddSource("a.js")
	b.SetSourceContent(srcIdx, "var x = 1;")
	b.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: srcIdx, OrigLine: 0, OrigCol: 0, NameIndex: -1})
	return b
}

func TestToObjectToBuilderRoundTrip(t *testing.T) {
	b := simpleBuilder()
	obj, err := b.ToObject()
	require.NoError(t, err)
	assert.Equal(t, 3, obj.Version)
	assert.Equal(t, []string{"a.js"}, obj.Sources)
	assert.NotEmpty(t, obj.Mappings)

	b2, err := ToBuilder(obj)
	require.NoError(t, err)
	obj2, err := b2.ToObject()
	require.NoError(t, err)
	assert.Equal(t, obj.Mappings, obj2.Mappings)
	assert.Equal(t, obj.Sources, obj2.Sources)
}

func TestRoundTripIsIdempotentUpToSegmentOrdering(t *testing.T) {
	b := NewBuilder()
	idx := b.AddSource("a.js")
	// Insert out of generated-column order; builder keeps them sorted.
	b.AddMapping(Segment{GenLine: 0, GenCol: 5, SourceIndex: idx, OrigLine: 0, OrigCol: 5, NameIndex: -1})
	b.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: idx, OrigLine: 0, OrigCol: 0, NameIndex: -1})

	obj, err := b.ToObject()
	require.NoError(t, err)

	b2, err := ToBuilder(obj)
	require.NoError(t, err)
	obj2, err := b2.ToObject()
	require.NoError(t, err)

	assert.Equal(t, obj.Mappings, obj2.Mappings)

	segs := b2.Segments()
	cols := make([]int, len(segs))
	for i, s := range segs {
		cols[i] = s.GenCol
	}
	assert.True(t, sort.IntsAreSorted(cols))
}

func TestGetSourceExactAndNearestMatch(t *testing.T) {
	b := NewBuilder()
	idx := b.AddSource("a.js")
	b.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: idx, OrigLine: 0, OrigCol: 0, NameIndex: -1})
	b.AddMapping(Segment{GenLine: 0, GenCol: 10, SourceIndex: idx, OrigLine: 0, OrigCol: 10, NameIndex: -1})

	exact := b.GetSource(0, 10)
	require.True(t, exact.Found)
	assert.Equal(t, 10, exact.Column)

	between := b.GetSource(0, 15)
	require.True(t, between.Found, "greatest segment with GenCol <= col should win")
	assert.Equal(t, 10, between.Column)

	before := b.GetSource(0, 0)
	require.True(t, before.Found)
	assert.Equal(t, 0, before.Column)
}

func TestGetSourceUnmappedLineReturnsInputUnchanged(t *testing.T) {
	b := NewBuilder()
	idx := b.AddSource("a.js")
	b.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: idx, OrigLine: 0, OrigCol: 0, NameIndex: -1})

	pos := b.GetSource(5, 3)
	assert.False(t, pos.Found)
	assert.Equal(t, 5, pos.Line)
	assert.Equal(t, 3, pos.Column)
}

func TestApplySourceMapComposesThroughInner(t *testing.T) {
	// Outer: generated (line0,col0) -> "mid" position (line0,col4) in b.js.
	outer := NewBuilder()
	midIdx := outer.AddSource("b.js")
	outer.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: midIdx, OrigLine: 0, OrigCol: 4, NameIndex: -1})

	// Inner: mid (line0,col4) -> original (line2,col1) in a.js.
	inner := NewBuilder()
	origIdx := inner.AddSource("a.js")
	inner.AddMapping(Segment{GenLine: 0, GenCol: 4, SourceIndex: origIdx, OrigLine: 2, OrigCol: 1, NameIndex: -1})

	composed := outer.ApplySourceMap(inner)
	pos := composed.GetSource(0, 0)
	require.True(t, pos.Found)
	assert.Equal(t, "a.js", pos.SourcePath)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)
}

func TestApplySourceMapLeavesUnresolvedSegmentsUnchanged(t *testing.T) {
	outer := NewBuilder()
	midIdx := outer.AddSource("b.js")
	outer.AddMapping(Segment{GenLine: 0, GenCol: 0, SourceIndex: midIdx, OrigLine: 9, OrigCol: 9, NameIndex: -1})

	inner := NewBuilder() // empty — nothing maps (9,9)

	composed := outer.ApplySourceMap(inner)
	pos := composed.GetSource(0, 0)
	require.True(t, pos.Found)
	assert.Equal(t, "b.js", pos.SourcePath)
	assert.Equal(t, 9, pos.Line)
	assert.Equal(t, 9, pos.Column)
}

func TestDataFormConversionsAreLossless(t *testing.T) {
	b := simpleBuilder()
	obj, err := b.ToObject()
	require.NoError(t, err)

	d := FromObject(obj)
	js, err := d.JSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"version":3`)

	d2 := FromJSON(js)
	obj2, err := d2.Object()
	require.NoError(t, err)
	assert.Equal(t, obj.Mappings, obj2.Mappings)

	b2, err := d2.Builder()
	require.NoError(t, err)
	obj3, err := b2.ToObject()
	require.NoError(t, err)
	assert.Equal(t, obj.Mappings, obj3.Mappings)
}
