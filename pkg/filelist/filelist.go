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

// Package filelist implements the streaming file pipeline: a FileList
// emits a "data" event per file as it arrives and a single "end" event
// once no more files will ever arrive. Subscribing late still sees every
// file already emitted and still sees end if it already fired — a
// listener's position in time never changes what it observes.
package filelist

import (
	"sync"

	"github.com/weftbuild/weft/pkg/vfile"
)

// DataFunc observes one file as it arrives.
type DataFunc func(f *vfile.File)

// EndFunc observes the full, final set of files once the list is closed.
type EndFunc func(files []*vfile.File)

// FileList is a streaming, append-only sequence of files. Zero value is
// not usable; construct with New.
type FileList struct {
	mu sync.Mutex

	files []*vfile.File
	ended bool

	dataListeners []DataFunc
	endListeners  []EndFunc
}

// New returns an empty, open FileList.
func New() *FileList {
	return &FileList{}
}

// Add appends f and notifies data listeners. A no-op once the list has
// ended: a FileList is not reopened by enqueuing after close.
func (l *FileList) Add(f *vfile.File) {
	l.mu.Lock()
	if l.ended {
		l.mu.Unlock()
		return
	}
	l.files = append(l.files, f)
	listeners := append([]DataFunc(nil), l.dataListeners...)
	l.mu.Unlock()

	for _, cb := range listeners {
		cb(f)
	}
}

// End closes the list and notifies end listeners with the final file
// slice. Idempotent: only the first call has any effect.
func (l *FileList) End() {
	l.mu.Lock()
	if l.ended {
		l.mu.Unlock()
		return
	}
	l.ended = true
	files := append([]*vfile.File(nil), l.files...)
	listeners := append([]EndFunc(nil), l.endListeners...)
	l.mu.Unlock()

	for _, cb := range listeners {
		cb(files)
	}
}

// OnData subscribes to future files and replays every file already added
// before cb was registered.
func (l *FileList) OnData(cb DataFunc) {
	l.mu.Lock()
	replay := append([]*vfile.File(nil), l.files...)
	l.dataListeners = append(l.dataListeners, cb)
	l.mu.Unlock()

	for _, f := range replay {
		cb(f)
	}
}

// OnEnd subscribes to the list's end, firing immediately with the final
// set if the list has already ended.
func (l *FileList) OnEnd(cb EndFunc) {
	l.mu.Lock()
	if l.ended {
		files := append([]*vfile.File(nil), l.files...)
		l.mu.Unlock()
		cb(files)
		return
	}
	l.endListeners = append(l.endListeners, cb)
	l.mu.Unlock()
}

// Files returns a snapshot of files added so far.
func (l *FileList) Files() []*vfile.File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*vfile.File(nil), l.files...)
}

// Ended reports whether End has already been called.
func (l *FileList) Ended() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ended
}

// Get returns the first file whose current path equals path.
func (l *FileList) Get(path string) *vfile.File {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.files {
		if f.Path() == path {
			return f
		}
	}
	return nil
}
