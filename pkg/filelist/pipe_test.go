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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftbuild/weft/pkg/vfile"
)

func TestPipeSyncTransformsEachFile(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()

	derived := l.Pipe(Sync(func(f *vfile.File) {
		content, err := f.Content()
		require.NoError(t, err)
		f.SetContent(strings.ToUpper(content))
	}), nil)

	l.Add(newTestFile(t, ctx, "a.txt"))
	l.End()

	var got []*vfile.File
	done := make(chan struct{})
	derived.OnEnd(func(files []*vfile.File) { got = files; close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("derived list never ended")
	}

	require.Len(t, got, 1)
	content, err := got[0].Content()
	require.NoError(t, err)
	assert.Equal(t, "X", content)
}

func TestPipeSyncPanicRecordsDiagnosticWithoutStoppingPipeline(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()

	derived := l.Pipe(Sync(func(f *vfile.File) {
		panic("boom")
	}), nil)

	f := newTestFile(t, ctx, "a.txt")
	l.Add(f)
	l.End()

	done := make(chan struct{})
	derived.OnEnd(func([]*vfile.File) { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("derived list never ended")
	}

	assert.Equal(t, 1, f.ErrorCount())
}

func TestPipeAsyncWaitsForAllInFlightBeforeEnd(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()

	release := make(chan struct{})
	derived := l.Pipe(Async(func(f *vfile.File, done func()) {
		go func() {
			<-release
			done()
		}()
	}), nil)

	l.Add(newTestFile(t, ctx, "a.txt"))
	l.End()

	ended := make(chan struct{})
	derived.OnEnd(func([]*vfile.File) { close(ended) })

	select {
	case <-ended:
		t.Fatal("derived ended before async work finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("derived never ended after async work finished")
	}
}

func TestPipeWholeListSeesFullSetInOrder(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()

	var seenNames []string
	derived := l.Pipe(WholeList(func(files []*vfile.File, add func(*vfile.File), done func()) {
		for _, f := range files {
			seenNames = append(seenNames, f.Path())
			add(f)
		}
		done()
	}), nil)

	l.Add(newTestFile(t, ctx, "a.txt"))
	l.Add(newTestFile(t, ctx, "b.txt"))
	l.End()

	done := make(chan struct{})
	derived.OnEnd(func([]*vfile.File) { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("derived list never ended")
	}

	assert.Equal(t, []string{"a.txt", "b.txt"}, seenNames)
}

func TestPipeDownstreamForwardsDataAndGatesEnd(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()
	target := New()

	result := l.Pipe(Downstream(target), nil)
	require.Same(t, target, result)

	l.Add(newTestFile(t, ctx, "a.txt"))
	assert.Len(t, target.Files(), 1)

	assert.False(t, target.Ended())
	l.End()
	assert.True(t, target.Ended())
}

func TestPipeFactoryBuildsFromOptions(t *testing.T) {
	ctx := newFakeContext(t)
	l := New()

	var gotOpts Options
	derived := l.Pipe(Factory(func(opts Options) *FileList {
		gotOpts = opts
		return New()
	}), Options{"mode": "strict"})

	l.Add(newTestFile(t, ctx, "a.txt"))
	l.End()

	assert.Equal(t, Options{"mode": "strict"}, gotOpts)
	assert.True(t, derived.Ended())
}
