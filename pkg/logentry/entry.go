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

// Package logentry implements the diagnostic ("log entry") carried by
// files and dependency edges. An entry references its source map only by
// path, never by pointer, so that File, sourcemap.Builder, and Entry never
// form a reference cycle — lookup happens through the owning File, which
// holds the actual builder.
package logentry

// Level is the severity of a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is a diagnostic with an optional location. Position is expressed
// in the generated file's coordinates unless Rewritten is true, in which
// case it has already been mapped back to original source coordinates.
type Entry struct {
	Level Level
	Data  string

	Path    string
	Content string
	HasPath bool

	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	HasEnd      bool

	// sourceMapPath is a weak reference: the path of the file whose source
	// map would resolve this entry's position, not the map itself.
	sourceMapPath string

	Rewritten bool
}

// New creates a plain entry with no location.
func New(level Level, data string) Entry {
	return Entry{Level: level, Data: data}
}

// WithLocation attaches a generated-file location to the entry.
func WithLocation(level Level, data, path string, startLine, startColumn, endLine, endColumn int, hasEnd bool) Entry {
	return Entry{
		Level:       level,
		Data:        data,
		Path:        path,
		HasPath:     true,
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
		HasEnd:      hasEnd,
	}
}

// SourceMapPath returns the weak source-map reference, if any.
func (e Entry) SourceMapPath() (string, bool) {
	return e.sourceMapPath, e.sourceMapPath != ""
}

// Resolver resolves a generated position to an original one; it is the
// minimal surface logentry needs from a sourcemap.Builder, kept here to
// avoid importing pkg/sourcemap's full API into this tiny package.
type Resolver interface {
	GetSource(line, col int) (path string, content string, hasContent bool, origLine, origCol int, found bool)
}

// RewriteThroughSourceMap rewrites e's position to the original source
// named by resolving the start location through r. If the end location
// resolves to a different source than the start, the end location is
// dropped (spec: "If the end position maps to a different source than the
// start, end-position is dropped").
func RewriteThroughSourceMap(e Entry, sourceMapPath string, r Resolver) Entry {
	if r == nil {
		return e
	}
	startPath, startContent, hasContent, startLine, startCol, found := r.GetSource(e.StartLine, e.StartColumn)
	if !found {
		return e
	}

	out := e
	out.Path = startPath
	out.HasPath = true
	if hasContent {
		out.Content = startContent
	}
	out.StartLine = startLine
	out.StartColumn = startCol
	out.Rewritten = true
	out.sourceMapPath = sourceMapPath

	if e.HasEnd {
		endPath, _, _, endLine, endCol, endFound := r.GetSource(e.EndLine, e.EndColumn)
		if endFound && endPath == startPath {
			out.EndLine = endLine
			out.EndColumn = endCol
			out.HasEnd = true
		} else {
			out.HasEnd = false
		}
	}
	return out
}
