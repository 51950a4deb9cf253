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
	"fmt"
	"sync"

	"github.com/weftbuild/weft/pkg/vfile"
)

// Pipe runs p over l's files and returns the resulting downstream list.
// The five Processor kinds dispatch differently:
//
//   - Sync/Async transform one file at a time; the derived list's end
//     waits for every in-flight per-file call to finish, using a pending
//     counter seeded at one (for l's own end) and incremented per arrival.
//   - WholeList waits for l's end, then runs once over the full set.
//   - Downstream forwards l's events onto an already-built FileList.
//   - Factory builds its FileList from opts, then is treated like Downstream.
//
// A panic inside a processor is recovered and recorded as an error
// diagnostic on the file being processed (or, for WholeList, on every
// upstream file, after which the derived list is ended); the pipeline keeps
// running either way.
func (l *FileList) Pipe(p Processor, opts Options) *FileList {
	opts = frozenOptions(opts)

	switch p.kind {
	case kindDownstream:
		return l.pipeDownstream(p.downstream)
	case kindFactory:
		return l.pipeDownstream(p.factory(opts))
	case kindSync:
		return l.pipeSync(p.syncFn)
	case kindAsync:
		return l.pipeAsync(p.asyncFn)
	case kindWholeList:
		return l.pipeWholeList(p.wholeListFn)
	default:
		panic("filelist: Pipe called with zero-value Processor")
	}
}

func (l *FileList) pipeDownstream(downstream *FileList) *FileList {
	l.OnData(downstream.Add)
	l.OnEnd(func([]*vfile.File) { downstream.End() })
	return downstream
}

// pendingGate emits End on derived once every registered unit of work has
// completed, where "registered" starts at one for l's own end and gains
// one per file accepted for processing.
type pendingGate struct {
	mu      sync.Mutex
	pending int
	derived *FileList
}

func newPendingGate(derived *FileList) *pendingGate {
	return &pendingGate{pending: 1, derived: derived}
}

func (g *pendingGate) add() {
	g.mu.Lock()
	g.pending++
	g.mu.Unlock()
}

func (g *pendingGate) done() {
	g.mu.Lock()
	g.pending--
	fire := g.pending == 0
	g.mu.Unlock()
	if fire {
		g.derived.End()
	}
}

func recoverInto(f *vfile.File) {
	if r := recover(); r != nil {
		f.Error(fmt.Sprintf("processor panic: %v", r))
	}
}

func (l *FileList) pipeSync(fn func(f *vfile.File)) *FileList {
	derived := New()
	gate := newPendingGate(derived)

	l.OnData(func(f *vfile.File) {
		gate.add()
		func() {
			defer recoverInto(f)
			fn(f)
		}()
		derived.Add(f)
		gate.done()
	})
	l.OnEnd(func([]*vfile.File) { gate.done() })

	return derived
}

func (l *FileList) pipeAsync(fn func(f *vfile.File, done func())) *FileList {
	derived := New()
	gate := newPendingGate(derived)

	l.OnData(func(f *vfile.File) {
		gate.add()
		var once sync.Once
		finish := func() {
			once.Do(func() {
				derived.Add(f)
				gate.done()
			})
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					f.Error(fmt.Sprintf("processor panic: %v", r))
					finish()
				}
			}()
			fn(f, finish)
		}()
	})
	l.OnEnd(func([]*vfile.File) { gate.done() })

	return derived
}

func (l *FileList) pipeWholeList(fn func(files []*vfile.File, add func(*vfile.File), done func())) *FileList {
	derived := New()

	l.OnEnd(func(files []*vfile.File) {
		add := func(f *vfile.File) { derived.Add(f) }
		done := func() { derived.End() }

		defer func() {
			if r := recover(); r != nil {
				for _, f := range files {
					f.Error(fmt.Sprintf("processor panic: %v", r))
				}
				derived.End()
			}
		}()
		fn(files, add, done)
	})

	return derived
}
