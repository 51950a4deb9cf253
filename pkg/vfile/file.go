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

// Package vfile implements File, the logical artifact that flows through a
// pipeline: a source path, a mutable target path, lazily-decoded content
// held in one of four slots, source-map data, and diagnostics.
package vfile

import (
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/fsys"
	"github.com/weftbuild/weft/pkg/logentry"
	"github.com/weftbuild/weft/pkg/matcher"
	"github.com/weftbuild/weft/pkg/pathutil"
	"github.com/weftbuild/weft/pkg/sourcemap"
	"github.com/weftbuild/weft/pkg/urlutil"
)

type bytesSlot struct {
	data []byte
	set  bool
}

type stringSlot struct {
	data string
	set  bool
}

// File holds one logical artifact as it moves through a pipeline.
type File struct {
	mu sync.Mutex

	ctx Context

	srcPath string // absolute; empty iff generated
	path    string // current target path; mutable

	srcBuffer   bytesSlot
	srcContent  stringSlot
	destBuffer  bytesSlot
	destContent stringSlot

	encodingOverride Option[Encoding]

	sourceMap *sourcemap.Data

	sourceMapEmit            Option[bool]
	sourceMapInline          Option[bool]
	sourceMapNames           Option[bool]
	sourceMapSourcesContent Option[bool]

	errorCount   int
	warningCount int
	diagnostics  []logentry.Entry

	indexes []int // line -> first-character index; nil means stale

	savedTo   []string
	processed bool
}

// New constructs a File. srcPath is resolved against cwd; an
// empty srcPath marks the file as generated. data, if non-nil, must be a
// string or []byte and populates the matching dest slot, which marks the
// file modified.
// path is kept as given (not resolved to absolute): it is joined against a
// dest/save directory later, at Save time, the way a relative output path
// is joined against an output tree. srcPath, by contrast, is resolved
// immediately since it names disk content read relative to the working
// directory regardless of where the file is ultimately written.
func New(ctx Context, srcPath, path string, data any) (*File, error) {
	cwd := ctx.WorkingDir()

	f := &File{ctx: ctx}
	if srcPath != "" {
		f.srcPath = pathutil.ResolvePath(cwd, srcPath)
	}
	if path != "" {
		f.path = path
	} else {
		f.path = srcPath
	}

	switch v := data.(type) {
	case nil:
	case string:
		f.destContent = stringSlot{data: v, set: true}
	case []byte:
		f.destBuffer = bytesSlot{data: v, set: true}
	default:
		return nil, errors.Errorf("vfile.New: data must be string or []byte, got %T", data)
	}

	return f, nil
}

// SrcPath returns the resolved, immutable source path ("" if generated).
func (f *File) SrcPath() string {
	return f.srcPath
}

// Path returns the current target path.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// SetPath rewrites the target path, as a processor renaming an extension
// or moving a file into a different folder would.
func (f *File) SetPath(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = path
}

// Ext returns the target path's extension, including the leading dot.
func (f *File) Ext() string {
	return pathutil.GetExt(f.Path())
}

// SrcDir returns the directory portion of the source path.
func (f *File) SrcDir() string {
	if f.srcPath == "" {
		return ""
	}
	return pathutil.GetDir(f.srcPath)
}

// DestDir returns the directory portion of the current target path.
func (f *File) DestDir() string {
	return pathutil.GetDir(f.Path())
}

// DestPath is an alias for Path, named to match the source/dest pairing
// used throughout this package's accessors.
func (f *File) DestPath() string {
	return f.Path()
}

// Generated reports whether this file has no backing source path.
func (f *File) Generated() bool {
	return f.srcPath == ""
}

// Modified reports whether a dest slot is populated or a source map has
// been attached.
func (f *File) Modified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destBuffer.set || f.destContent.set || f.sourceMap != nil
}

// Exists reports whether the source file exists on disk. A generated file
// (empty srcPath) never exists.
func (f *File) Exists() (bool, error) {
	if f.srcPath == "" {
		return false, nil
	}
	return fsys.Exists(f.srcPath)
}

// Encoding returns this file's effective encoding: its own override if
// set, else the engine default.
func (f *File) Encoding() Encoding {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.encodingOverride.Get(f.ctx.DefaultEncoding())
}

// SetEncoding installs a per-file encoding override.
func (f *File) SetEncoding(e Encoding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.encodingOverride.Set(e)
}

// ErrorCount and WarningCount report accumulated diagnostic counts.
func (f *File) ErrorCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorCount
}

func (f *File) WarningCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.warningCount
}

// Diagnostics returns a copy of every diagnostic recorded against this
// file so far.
func (f *File) Diagnostics() []logentry.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logentry.Entry, len(f.diagnostics))
	copy(out, f.diagnostics)
	return out
}

// AddDiagnostic records e against this file, rewriting its position
// through the attached source map (if any) first, and bumps the matching
// counter.
func (f *File) AddDiagnostic(e logentry.Entry) logentry.Entry {
	f.mu.Lock()
	sourceMap := f.sourceMap
	path := f.path
	f.mu.Unlock()

	if sourceMap != nil {
		if builder, err := sourceMap.Builder(); err == nil {
			e = logentry.RewriteThroughSourceMap(e, path, builderResolver{builder})
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.diagnostics = append(f.diagnostics, e)
	switch e.Level {
	case logentry.LevelError:
		f.errorCount++
	case logentry.LevelWarning:
		f.warningCount++
	}
	return e
}

// Error records an error-level diagnostic with no location.
func (f *File) Error(data string) logentry.Entry {
	return f.AddDiagnostic(logentry.New(logentry.LevelError, data))
}

// Warning records a warning-level diagnostic with no location.
func (f *File) Warning(data string) logentry.Entry {
	return f.AddDiagnostic(logentry.New(logentry.LevelWarning, data))
}

// SourceMap returns the file's current source-map handle, or nil if none
// has been attached.
func (f *File) SourceMap() *sourcemap.Data {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sourceMap
}

// SetSourceMap installs m as this file's source-map data, which also marks
// the file modified.
func (f *File) SetSourceMap(m *sourcemap.Data) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceMap = m
}

// ApplySourceMap merges m into the current map via builder composition
// (existing ∘ m): m is treated as the inner transformation that produced
// the content the current map describes.
func (f *File) ApplySourceMap(m *sourcemap.Data) error {
	f.mu.Lock()
	existing := f.sourceMap
	f.mu.Unlock()

	if existing == nil {
		f.SetSourceMap(m)
		return nil
	}

	outer, err := existing.Builder()
	if err != nil {
		return errors.Errorf("coercing existing source map to builder: %w", err)
	}
	inner, err := m.Builder()
	if err != nil {
		return errors.Errorf("coercing applied source map to builder: %w", err)
	}

	composed := outer.ApplySourceMap(inner)
	f.SetSourceMap(sourcemap.FromBuilder(composed))
	return nil
}

// per-file source-map emission flag overrides, falling back to the engine
// defaults.

func (f *File) SourceMapEmitOption() *Option[bool]            { return &f.sourceMapEmit }
func (f *File) SourceMapInlineOption() *Option[bool]          { return &f.sourceMapInline }
func (f *File) SourceMapNamesOption() *Option[bool]           { return &f.sourceMapNames }
func (f *File) SourceMapSourcesContentOption() *Option[bool]  { return &f.sourceMapSourcesContent }

func (f *File) sourceMapEmitEffective() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sourceMapEmit.Get(f.ctx.SourceMapEmit())
}

func (f *File) sourceMapInlineEffective() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sourceMapInline.Get(f.ctx.SourceMapInline())
}

func (f *File) sourceMapNamesEffective() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sourceMapNames.Get(f.ctx.SourceMapNames())
}

func (f *File) sourceMapSourcesContentEffective() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sourceMapSourcesContent.Get(f.ctx.SourceMapSourcesContent())
}

// Dep records a full-rebuild dependency edge from this file to target.
func (f *File) Dep(target string, log *logentry.Entry) {
	f.ctx.Deps().AddDep(f.srcPath, target, log)
}

// Ref records a content-only-refresh reference edge from this file to
// target.
func (f *File) Ref(target string, log *logentry.Entry) {
	f.ctx.Deps().AddRef(f.srcPath, target, log)
}

// Clone returns a new File with the same paths and current dest content,
// sharing no mutable state with the original.
func (f *File) Clone() *File {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := &File{
		ctx:                     f.ctx,
		srcPath:                 f.srcPath,
		path:                    f.path,
		srcBuffer:               f.srcBuffer,
		srcContent:              f.srcContent,
		destBuffer:              f.destBuffer,
		destContent:             f.destContent,
		encodingOverride:        f.encodingOverride,
		sourceMapEmit:           f.sourceMapEmit,
		sourceMapInline:         f.sourceMapInline,
		sourceMapNames:          f.sourceMapNames,
		sourceMapSourcesContent: f.sourceMapSourcesContent,
	}
	return clone
}

// Match reports whether this file's path satisfies m.
func (f *File) Match(m matcher.Matcher) bool {
	return m.Test(f.Path())
}

// Resolve resolves ref against this file's path using URL semantics
// (query/fragment preserved).
func (f *File) Resolve(ref string) (string, error) {
	return urlutil.ResolveURL(f.Path(), ref)
}

// Relative expresses target relative to this file's path, preserving
// target's query/fragment.
func (f *File) Relative(target string) (string, error) {
	return urlutil.RelativeURL(f.Path(), target)
}

// IndexToLocation converts a zero-based character index into a
// (line, column) pair, using a memoised table of line-start offsets.
func (f *File) IndexToLocation(n int) (line, column int, err error) {
	content, err := f.Content()
	if err != nil {
		return 0, 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureIndexesLocked(content)

	i := sort.Search(len(f.indexes), func(i int) bool { return f.indexes[i] > n }) - 1
	if i < 0 {
		i = 0
	}
	return i, n - f.indexes[i], nil
}

// LocationToIndex converts a (line, column) pair back into a zero-based
// character index.
func (f *File) LocationToIndex(line, column int) (int, error) {
	content, err := f.Content()
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureIndexesLocked(content)

	if line < 0 || line >= len(f.indexes) {
		return 0, errors.Errorf("line %d out of range", line)
	}
	return f.indexes[line] + column, nil
}

func (f *File) ensureIndexesLocked(content string) {
	if f.indexes != nil {
		return
	}
	indexes := []int{0}
	for i, r := range content {
		if r == '\n' {
			indexes = append(indexes, i+1)
		}
	}
	f.indexes = indexes
}

func (f *File) invalidateIndexesLocked() {
	f.indexes = nil
}

func (f *File) markProcessed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processed = true
}

func (f *File) pathIsJSLike(path string) bool {
	return strings.EqualFold(pathutil.GetExt(path), ".js") ||
		strings.EqualFold(pathutil.GetExt(path), ".mjs") ||
		strings.EqualFold(pathutil.GetExt(path), ".cjs")
}
