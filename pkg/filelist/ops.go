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
	"github.com/weftbuild/weft/pkg/matcher"
	"github.com/weftbuild/weft/pkg/vfile"
)

// Src derives a list containing only the files of l whose current path
// matches at least one of patterns (doublestar glob syntax).
func (l *FileList) Src(patterns ...string) *FileList {
	ms := make([]matcher.Matcher, 0, len(patterns))
	for _, p := range patterns {
		ms = append(ms, matcher.Glob(p))
	}

	derived := New()
	gate := newPendingGate(derived)

	l.OnData(func(f *vfile.File) {
		if matcher.Any(f.Path(), ms...) {
			derived.Add(f)
		}
	})
	l.OnEnd(func([]*vfile.File) { gate.done() })

	return derived
}

// Concat merges l and others into one list: every file from every input
// is forwarded in arrival order per-source, and the merged list ends once
// every input has ended.
func (l *FileList) Concat(others ...*FileList) *FileList {
	inputs := append([]*FileList{l}, others...)
	derived := New()

	remaining := len(inputs)
	gate := newPendingGateN(derived, remaining)

	for _, in := range inputs {
		in.OnData(derived.Add)
		in.OnEnd(func([]*vfile.File) { gate.done() })
	}

	return derived
}

func newPendingGateN(derived *FileList, n int) *pendingGate {
	g := newPendingGate(derived)
	g.pending = n
	return g
}

// Dest saves every file of l under dir (joined with the file's own path)
// and forwards each file downstream once its save completes, in completion
// order. Save failures are recorded on the file as diagnostics by
// vfile.File.Save itself; Dest does not abort the pipeline on error.
func (l *FileList) Dest(dir string) *FileList {
	return l.pipeAsync(func(f *vfile.File, done func()) {
		f.Save(dir, func(error) { done() })
	})
}

// Delete removes the source file backing every file of l from disk,
// optionally pruning the now-empty parent directory, and forwards each
// file downstream once the delete completes.
func (l *FileList) Delete(removeEmptyParent bool) *FileList {
	return l.pipeAsync(func(f *vfile.File, done func()) {
		f.Delete(removeEmptyParent, func(error) { done() })
	})
}
