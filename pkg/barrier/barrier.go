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

// Package barrier implements the task barrier: a counter of in-flight
// asynchronous operations that runs queued continuations, in registration
// order, once the count drops back to zero.
//
// Continuations chain via Then so that pipeline code reads as straight-line
// composition ("match, then pipe, then dest") while the underlying I/O
// stays asynchronous. The barrier is the sole process-level liveness
// signal. It has no stop or cancel operation: a queued continuation waits
// until the count next returns to zero, and is never run if that does not
// happen.
package barrier

import (
	"sync"

	"github.com/rs/zerolog"
)

// Continuation is a tagged variant of the work a Barrier runs once it
// drains to zero: Sync work completes immediately, Async work holds the
// barrier raised until its done callback fires. This replaces the
// arity-introspection trick of the JavaScript original with an explicit
// two-constructor contract.
type Continuation struct {
	fn    func(done func())
	async bool
}

// Sync wraps a synchronous continuation: it runs to completion before Then
// returns control to the barrier.
func Sync(fn func()) Continuation {
	return Continuation{fn: func(done func()) { fn(); done() }}
}

// Async wraps a continuation that itself performs asynchronous work; the
// barrier stays raised until done is invoked.
func Async(fn func(done func())) Continuation {
	return Continuation{fn: fn, async: true}
}

// Barrier counts outstanding asynchronous operations and drains a FIFO
// queue of continuations whenever that count returns to zero.
type Barrier struct {
	mu       sync.Mutex
	count    int
	nextID   int
	queue    []Continuation
	draining bool
	logger   *zerolog.Logger
}

// New creates a Barrier with no logger, so panicking continuations are
// recovered silently; Barrier.WithLogger attaches a logger for reporting
// them.
func New() *Barrier {
	return &Barrier{}
}

// WithLogger attaches a logger used to report continuations that panic.
func (b *Barrier) WithLogger(l *zerolog.Logger) *Barrier {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = l
	return b
}

// Begin marks the start of an asynchronous operation and returns an id to
// pass to End. label/args are accepted for progress-reporting callers and
// otherwise unused by the barrier itself.
func (b *Barrier) Begin(label string, args ...any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count++
	b.nextID++
	return b.nextID
}

// End marks the asynchronous operation identified by id as complete. When
// the outstanding count reaches zero, queued continuations run in the
// order they were registered.
func (b *Barrier) End(id int) {
	b.mu.Lock()
	if b.count > 0 {
		b.count--
	}
	shouldDrain := b.count == 0 && !b.draining && len(b.queue) > 0
	if shouldDrain {
		b.draining = true
	}
	b.mu.Unlock()

	if shouldDrain {
		b.drain()
	}
}

// Then enqueues a continuation. If the barrier is already at zero (and not
// presently draining a previous batch), the continuation runs immediately;
// otherwise it waits for the next drain.
func (b *Barrier) Then(c Continuation) {
	b.mu.Lock()
	if b.count == 0 && !b.draining {
		b.draining = true
		b.queue = append(b.queue, c)
		b.mu.Unlock()
		b.drain()
		return
	}
	b.queue = append(b.queue, c)
	b.mu.Unlock()
}

// drain runs queued continuations in FIFO order. An Async continuation
// that calls Begin before invoking done keeps the barrier raised and
// re-enters drain once it completes and the count falls back to zero.
func (b *Barrier) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		c := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.runOne(c)

		b.mu.Lock()
		stillZero := b.count == 0
		b.mu.Unlock()
		if !stillZero {
			// An async continuation raised the barrier again; End will
			// resume draining once it falls back to zero.
			b.mu.Lock()
			b.draining = false
			b.mu.Unlock()
			return
		}
	}
}

func (b *Barrier) runOne(c Continuation) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Error().Interface("panic", r).Msg("continuation panicked")
			}
		}
	}()

	if !c.async {
		c.fn(func() {})
		return
	}

	// Async continuations hold the barrier raised (via their own Begin/End
	// pair) until their done callback fires, so a continuation queued
	// behind this one does not run until this one's asynchronous work
	// also completes.
	id := b.Begin("continuation")
	var once sync.Once
	c.fn(func() {
		once.Do(func() { b.End(id) })
	})
}
