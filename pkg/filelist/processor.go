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

import "github.com/weftbuild/weft/pkg/vfile"

// kind tags which variant of Processor a value holds, replacing the
// function-arity introspection a dynamically-typed pipeline would use to
// distinguish a synchronous callback from an asynchronous one.
type kind int

const (
	kindSync kind = iota
	kindAsync
	kindWholeList
	kindDownstream
	kindFactory
)

// Processor is the tagged union Pipe accepts: a file transformation may be
// synchronous, asynchronous (signals completion via done), whole-list
// (sees the entire upstream in arrival order), an already-built downstream
// FileList, or a factory that builds one given Pipe's options.
type Processor struct {
	kind kind

	syncFn       func(f *vfile.File)
	asyncFn      func(f *vfile.File, done func())
	wholeListFn  func(files []*vfile.File, add func(*vfile.File), done func())
	downstream   *FileList
	factory      func(opts Options) *FileList
}

// Sync builds a Processor that transforms one file at a time, synchronously.
func Sync(fn func(f *vfile.File)) Processor {
	return Processor{kind: kindSync, syncFn: fn}
}

// Async builds a Processor that transforms one file at a time, signalling
// completion via done.
func Async(fn func(f *vfile.File, done func())) Processor {
	return Processor{kind: kindAsync, asyncFn: fn}
}

// WholeList builds a Processor that waits for the upstream's end, then
// processes every file, calling add to forward files downstream and done
// once when finished. Files are presented in upstream-end order.
func WholeList(fn func(files []*vfile.File, add func(*vfile.File), done func())) Processor {
	return Processor{kind: kindWholeList, wholeListFn: fn}
}

// Downstream adapts an already-constructed FileList as a pipeline stage:
// every upstream data event is forwarded onto list, the upstream's end ends
// list, and Pipe returns list itself.
func Downstream(list *FileList) Processor {
	return Processor{kind: kindDownstream, downstream: list}
}

// Factory builds a Processor from a constructor invoked with Pipe's
// options, for stages that need to build their own FileList (mirroring a
// class-style processor in the source system).
func Factory(fn func(opts Options) *FileList) Processor {
	return Processor{kind: kindFactory, factory: fn}
}
