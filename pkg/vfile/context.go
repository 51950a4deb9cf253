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

package vfile

import (
	"github.com/weftbuild/weft/pkg/deps"
)

// Mode is the working mode that governs File.Save/Delete semantics.
type Mode int

const (
	ModeBuild Mode = iota
	ModePreview
	ModeClean
	ModeWatch
)

func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeClean:
		return "clean"
	case ModeWatch:
		return "watch"
	default:
		return "build"
	}
}

// Hooks are the optional, engine-wide extension points a File consults
// during Save. Any of them may be nil.
type Hooks struct {
	// ValidateSave reports whether f should be saved at all; returning
	// false skips the save silently.
	ValidateSave func(f *File) bool
	// SourceMapSource rewrites a source path as it will appear in the
	// emitted map's "sources" array.
	SourceMapSource func(f *File, path string) (string, bool)
	// SourceMapSourceContent supplies the original content for a source
	// path, overriding whatever the builder or disk would provide.
	SourceMapSourceContent func(f *File, path string) (string, bool)
	// ValidateSourceMapJSON may rewrite the serialized map JSON before it
	// is emitted.
	ValidateSourceMapJSON func(f *File, json string) string
}

// Context is the minimal set of engine-wide collaborators a File needs:
// working mode, defaults, hooks, and the shared dependency tracker. It lets
// pkg/vfile stay free of pkg/engine's concerns (config loading, pipeline
// construction) while still resolving per-file overrides against a single
// source of truth, matching the "global mutable state becomes an explicit
// Engine struct" design note.
type Context interface {
	Mode() Mode
	WorkingDir() string
	DefaultEncoding() Encoding
	Overwrite() bool

	// SourceMapEmit/-Inline/-Names/-SourcesContent are the engine-wide
	// defaults a File falls back to when its own Option override is unset.
	SourceMapEmit() bool
	SourceMapInline() bool
	SourceMapNames() bool
	SourceMapSourcesContent() bool

	Hooks() Hooks
	Deps() *deps.Tracker

	// RecordOutputs notifies the cache that srcPath produced outputs,
	// called at the end of a successful Save.
	RecordOutputs(srcPath string, outputs ...string)
}
