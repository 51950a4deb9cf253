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

// Package sourcemap represents Source Map V3 mappings in either raw object
// form or builder form, and implements composition of two maps by
// following one map's generated position through the other's mapping.
package sourcemap

import (
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Segment is one mapping from a generated (line, column) to an original
// source position. SourceIndex and NameIndex are -1 when absent. All
// line/column numbers are zero-based.
type Segment struct {
	GenLine     int
	GenCol      int
	SourceIndex int
	OrigLine    int
	OrigCol     int
	NameIndex   int
}

// hasSource reports whether the segment carries an original position.
func (s Segment) hasSource() bool { return s.SourceIndex >= 0 }

// Builder accumulates mapping segments plus the deduplicated sources/names
// tables backing a Source Map V3 object.
type Builder struct {
	File       string
	SourceRoot string

	sources     []string
	sourceIndex map[string]int
	content     []*string

	names     []string
	nameIndex map[string]int

	// lines[n] holds the segments whose GenLine == n, kept sorted by GenCol.
	lines [][]Segment
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		sourceIndex: make(map[string]int),
		nameIndex:   make(map[string]int),
	}
}

// AddSource returns the (deduplicated) index of path in the sources table,
// inserting it if this is the first time it has been seen.
func (b *Builder) AddSource(path string) int {
	if idx, ok := b.sourceIndex[path]; ok {
		return idx
	}
	idx := len(b.sources)
	b.sources = append(b.sources, path)
	b.content = append(b.content, nil)
	b.sourceIndex[path] = idx
	return idx
}

// SetSourceContent records the original content for a source previously
// added with AddSource.
func (b *Builder) SetSourceContent(sourceIndex int, content string) {
	if sourceIndex < 0 || sourceIndex >= len(b.content) {
		return
	}
	b.content[sourceIndex] = &content
}

// AddName returns the (deduplicated) index of name in the names table.
func (b *Builder) AddName(name string) int {
	if idx, ok := b.nameIndex[name]; ok {
		return idx
	}
	idx := len(b.names)
	b.names = append(b.names, name)
	b.nameIndex[name] = idx
	return idx
}

// AddMapping appends a segment. sourceIndex/nameIndex of -1 mean "no
// original position"/"no name". Segments are kept sorted by GenCol within
// each generated line.
func (b *Builder) AddMapping(seg Segment) {
	for len(b.lines) <= seg.GenLine {
		b.lines = append(b.lines, nil)
	}
	line := b.lines[seg.GenLine]
	i := sort.Search(len(line), func(i int) bool { return line[i].GenCol > seg.GenCol })
	line = append(line, Segment{})
	copy(line[i+1:], line[i:])
	line[i] = seg
	b.lines[seg.GenLine] = line
}

// Sources returns a copy of the deduplicated sources table.
func (b *Builder) Sources() []string {
	out := make([]string, len(b.sources))
	copy(out, b.sources)
	return out
}

// SourceContent returns the recorded content for a source index, if any.
func (b *Builder) SourceContent(sourceIndex int) (string, bool) {
	if sourceIndex < 0 || sourceIndex >= len(b.content) || b.content[sourceIndex] == nil {
		return "", false
	}
	return *b.content[sourceIndex], true
}

// Names returns a copy of the deduplicated names table.
func (b *Builder) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Segments returns every segment across every generated line, in
// (line, column) order.
func (b *Builder) Segments() []Segment {
	var out []Segment
	for _, line := range b.lines {
		out = append(out, line...)
	}
	return out
}

// ToObject serializes the builder to a raw Source Map V3 object, encoding
// segments to VLQ mappings.
func (b *Builder) ToObject() (*Object, error) {
	var sb strings.Builder

	var prevGenCol, prevSourceIdx, prevOrigLine, prevOrigCol, prevNameIdx int

	for lineNo := 0; lineNo < len(b.lines); lineNo++ {
		if lineNo > 0 {
			sb.WriteByte(';')
		}
		prevGenCol = 0
		segs := b.lines[lineNo]
		for i, seg := range segs {
			if i > 0 {
				sb.WriteByte(',')
			}
			if !seg.hasSource() {
				encodeVLQ(&sb, seg.GenCol-prevGenCol)
				prevGenCol = seg.GenCol
				continue
			}
			fields := []int{
				seg.GenCol - prevGenCol,
				seg.SourceIndex - prevSourceIdx,
				seg.OrigLine - prevOrigLine,
				seg.OrigCol - prevOrigCol,
			}
			prevGenCol = seg.GenCol
			prevSourceIdx = seg.SourceIndex
			prevOrigLine = seg.OrigLine
			prevOrigCol = seg.OrigCol
			if seg.NameIndex >= 0 {
				fields = append(fields, seg.NameIndex-prevNameIdx)
				prevNameIdx = seg.NameIndex
			}
			encodeVLQ(&sb, fields...)
		}
	}

	obj := &Object{
		Version:    3,
		File:       b.File,
		SourceRoot: b.SourceRoot,
		Sources:    b.Sources(),
		Names:      b.Names(),
		Mappings:   sb.String(),
	}
	if len(b.content) > 0 {
		content := make([]*string, len(b.content))
		copy(content, b.content)
		obj.SourcesContent = content
	}
	return obj, nil
}

// ToBuilder parses a raw Source Map V3 object into a Builder.
func ToBuilder(obj *Object) (*Builder, error) {
	b := NewBuilder()
	b.File = obj.File
	b.SourceRoot = obj.SourceRoot

	for i, src := range obj.Sources {
		idx := b.AddSource(src)
		if i < len(obj.SourcesContent) && obj.SourcesContent[i] != nil {
			b.SetSourceContent(idx, *obj.SourcesContent[i])
		}
	}
	for _, name := range obj.Names {
		b.AddName(name)
	}

	var prevSourceIdx, prevOrigLine, prevOrigCol, prevNameIdx int
	lineNo := 0
	pos := 0
	mappings := obj.Mappings
	for pos <= len(mappings) {
		prevGenCol := 0
		for pos < len(mappings) && mappings[pos] != ';' {
			fields, next, err := decodeVLQSegment(mappings, pos)
			if err != nil {
				return nil, errors.Errorf("parsing mappings at line %d: %w", lineNo, err)
			}
			pos = next
			if len(fields) == 0 {
				break
			}
			seg := Segment{GenLine: lineNo, SourceIndex: -1, NameIndex: -1}
			prevGenCol += fields[0]
			seg.GenCol = prevGenCol
			if len(fields) >= 4 {
				prevSourceIdx += fields[1]
				prevOrigLine += fields[2]
				prevOrigCol += fields[3]
				seg.SourceIndex = prevSourceIdx
				seg.OrigLine = prevOrigLine
				seg.OrigCol = prevOrigCol
				if len(fields) >= 5 {
					prevNameIdx += fields[4]
					seg.NameIndex = prevNameIdx
				}
			}
			b.AddMapping(seg)
			if pos < len(mappings) && mappings[pos] == ',' {
				pos++
			} else {
				break
			}
		}
		if pos < len(mappings) && mappings[pos] == ';' {
			pos++
			lineNo++
			continue
		}
		break
	}

	return b, nil
}

// Position is a resolved point in a generated or original file.
type Position struct {
	SourcePath    string
	SourceContent string
	HasContent    bool
	Line          int
	Column        int
	Name          string
	HasName       bool
	Found         bool
}

// GetSource resolves a generated (line, column) position to its original
// source position. If no segment matches (line, col) exactly, the greatest
// segment with GenCol <= col on the same line wins. If no segment covers
// that line at all, the input position is returned unchanged and Found is
// false.
func (b *Builder) GetSource(line, col int) Position {
	if line < 0 || line >= len(b.lines) || len(b.lines[line]) == 0 {
		return Position{Line: line, Column: col}
	}
	segs := b.lines[line]
	i := sort.Search(len(segs), func(i int) bool { return segs[i].GenCol > col })
	if i == 0 {
		return Position{Line: line, Column: col}
	}
	seg := segs[i-1]
	if !seg.hasSource() {
		return Position{Line: line, Column: col}
	}
	pos := Position{
		SourcePath: b.sourceAt(seg.SourceIndex),
		Line:       seg.OrigLine,
		Column:     seg.OrigCol,
		Found:      true,
	}
	if content, ok := b.SourceContent(seg.SourceIndex); ok {
		pos.SourceContent = content
		pos.HasContent = true
	}
	if seg.NameIndex >= 0 && seg.NameIndex < len(b.names) {
		pos.Name = b.names[seg.NameIndex]
		pos.HasName = true
	}
	return pos
}

func (b *Builder) sourceAt(idx int) string {
	if idx < 0 || idx >= len(b.sources) {
		return ""
	}
	return b.sources[idx]
}

// ApplySourceMap composes this builder with inner: for each of this
// builder's segments, inner's mapping is consulted at the segment's
// current (original line, original column) — which, before composition,
// names a position in inner's *generated* output. If inner has a mapping
// there, the segment's original position is replaced with inner's;
// otherwise the segment is left unchanged. Sources and names from inner
// that end up referenced are absorbed into this builder's tables.
func (b *Builder) ApplySourceMap(inner *Builder) *Builder {
	out := NewBuilder()
	out.File = b.File
	out.SourceRoot = b.SourceRoot

	for lineNo, segs := range b.lines {
		for _, seg := range segs {
			newSeg := seg
			if seg.hasSource() {
				resolved := inner.GetSource(seg.OrigLine, seg.OrigCol)
				if resolved.Found {
					idx := out.AddSource(resolved.SourcePath)
					if resolved.HasContent {
						out.SetSourceContent(idx, resolved.SourceContent)
					}
					newSeg.SourceIndex = idx
					newSeg.OrigLine = resolved.Line
					newSeg.OrigCol = resolved.Column
					if resolved.HasName {
						newSeg.NameIndex = out.AddName(resolved.Name)
					} else if seg.NameIndex >= 0 {
						newSeg.NameIndex = out.AddName(b.names[seg.NameIndex])
					} else {
						newSeg.NameIndex = -1
					}
				} else {
					idx := out.AddSource(b.sourceAt(seg.SourceIndex))
					if content, ok := b.SourceContent(seg.SourceIndex); ok {
						out.SetSourceContent(idx, content)
					}
					newSeg.SourceIndex = idx
					if seg.NameIndex >= 0 {
						newSeg.NameIndex = out.AddName(b.names[seg.NameIndex])
					}
				}
			}
			newSeg.GenLine = lineNo
			out.AddMapping(newSeg)
		}
	}
	return out
}
