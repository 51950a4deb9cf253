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

package barrier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThenRunsImmediatelyWhenIdle(t *testing.T) {
	b := New()
	ran := false
	b.Then(Sync(func() { ran = true }))
	assert.True(t, ran, "sync continuation should run immediately when the barrier is idle")
}

func TestThenWaitsForOutstandingWork(t *testing.T) {
	b := New()
	id := b.Begin("work")

	ran := false
	b.Then(Sync(func() { ran = true }))
	assert.False(t, ran, "continuation must wait until outstanding work ends")

	b.End(id)
	assert.True(t, ran, "continuation should run once the barrier drains to zero")
}

func TestContinuationsRunInFIFOOrder(t *testing.T) {
	b := New()
	id := b.Begin("work")

	var order []int
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		i := i
		b.Then(Sync(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}

	b.End(id)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestAsyncContinuationHoldsBarrier(t *testing.T) {
	b := New()

	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	doneCh := make(chan func(), 1)
	b.Then(Async(func(done func()) {
		record("async-start")
		doneCh <- done
	}))
	b.Then(Sync(func() { record("sync-after") }))

	// The second continuation must not run until the async one finishes.
	select {
	case done := <-doneCh:
		mu.Lock()
		got := append([]string{}, order...)
		mu.Unlock()
		assert.Equal(t, []string{"async-start"}, got)
		done()
	case <-time.After(time.Second):
		t.Fatal("async continuation never started")
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == 2
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"async-start", "sync-after"}, order)
}

func TestBeginEndNesting(t *testing.T) {
	b := New()
	id1 := b.Begin("outer")
	id2 := b.Begin("inner")

	ran := false
	b.Then(Sync(func() { ran = true }))

	b.End(id1)
	assert.False(t, ran, "one outstanding operation should still hold the barrier")

	b.End(id2)
	assert.True(t, ran)
}

func TestPanicInContinuationDoesNotWedgeQueue(t *testing.T) {
	b := New()
	second := false
	b.Then(Sync(func() { panic("boom") }))
	b.Then(Sync(func() { second = true }))
	assert.True(t, second, "a panicking continuation should not prevent later ones from running")
}
