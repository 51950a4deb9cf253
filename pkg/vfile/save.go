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
	"encoding/json"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/fsys"
	"github.com/weftbuild/weft/pkg/logentry"
	"github.com/weftbuild/weft/pkg/pathutil"
	"github.com/weftbuild/weft/pkg/sourcemap"
	"github.com/weftbuild/weft/pkg/urlutil"
)

func errorEntry(data string) logentry.Entry   { return logentry.New(logentry.LevelError, data) }
func warningEntry(data string) logentry.Entry { return logentry.New(logentry.LevelWarning, data) }

// ErrOverwriteConflict is reported when a save would silently overwrite its
// own source and overwrite is disabled.
var ErrOverwriteConflict = errors.New("EEXIST")

// Save computes savePath = resolve(dir or ".", path) and performs
// validation, the overwrite guard, working-mode dispatch, source-map
// assembly and emission, and persistence, in that order. done receives the
// error (if any); a skipped save (validation hook, up-to-date, or
// overwrite guard) is reported as done(nil) except for the overwrite
// conflict case, which reports ErrOverwriteConflict.
func (f *File) Save(dir string, done func(error)) {
	hooks := f.ctx.Hooks()
	if hooks.ValidateSave != nil && !hooks.ValidateSave(f) {
		done(nil)
		return
	}

	base := dir
	if base == "" {
		base = "."
	}
	savePath := pathutil.ResolvePath(f.ctx.WorkingDir(), pathutil.ResolvePath(base, f.Path()))

	willEmitMap := f.SourceMap() != nil && f.sourceMapEmitEffective()

	if pathutil.PathEquals(savePath, f.srcPath) {
		if !f.Modified() && !willEmitMap {
			f.markProcessed()
			done(nil)
			return
		}
		if !f.ctx.Overwrite() {
			f.AddDiagnostic(errorEntry("save would overwrite unmodified source: " + savePath))
			f.markProcessed()
			done(errors.Errorf("%w: %s", ErrOverwriteConflict, savePath))
			return
		}
	}

	switch f.ctx.Mode() {
	case ModeClean:
		f.saveClean(savePath, done)
	case ModePreview:
		f.markProcessed()
		done(nil)
	default:
		f.saveBuild(savePath, done)
	}
}

func (f *File) saveClean(savePath string, done func(error)) {
	if err := deletePathAndSiblingMap(savePath); err != nil {
		f.Error(err.Error())
		f.markProcessed()
		done(err)
		return
	}
	f.ctx.RecordOutputs(f.srcPath)
	f.markProcessed()
	done(nil)
}

// DeleteOutput deletes an output path previously recorded by a build, along
// with its sibling "<path>.map" source map if present, then prunes the
// parent directory if it is now empty. Exported for callers (engine's
// cache-driven clean, per spec.md §4.6) that delete a build's recorded
// outputs directly rather than through a File's own Save.
func DeleteOutput(path string) error {
	return deletePathAndSiblingMap(path)
}

func (f *File) saveBuild(savePath string, done func(error)) {
	content, err := f.Buffer()
	if err != nil {
		f.markProcessed()
		done(err)
		return
	}

	outputs := []string{savePath}

	sourceMapPath := savePath + ".map"
	var mapJSON []byte
	emitMap := f.SourceMap() != nil && f.sourceMapEmitEffective()

	if emitMap {
		obj, err := f.assembleSourceMapObject(savePath)
		if err != nil {
			f.AddDiagnostic(warningEntry("source-map composition failed, keeping original: " + err.Error()))
			emitMap = false
		} else {
			data, err := json.Marshal(obj)
			if err != nil {
				f.AddDiagnostic(warningEntry("source-map serialization failed: " + err.Error()))
				emitMap = false
			} else {
				serialized := string(data)
				if hooks := f.ctx.Hooks(); hooks.ValidateSourceMapJSON != nil {
					serialized = hooks.ValidateSourceMapJSON(f, serialized)
				}
				mapJSON = []byte(serialized)
			}
		}
	}

	if emitMap {
		var mappingURL string
		if f.sourceMapInlineEffective() {
			mappingURL = urlutil.Base64URI("application/json", mapJSON)
		} else {
			rel, err := pathutil.RelativePath(pathutil.GetDir(savePath), sourceMapPath)
			if err != nil {
				rel = pathutil.Base(sourceMapPath)
			}
			mappingURL = filepathToSlash(rel)
			outputs = append(outputs, sourceMapPath)
		}
		content = append(content, []byte(f.sourceMappingComment(savePath, mappingURL))...)
	}

	fsys.WriteFileAsync(savePath, content, 0, func(err error) {
		if err != nil {
			f.Error(err.Error())
			f.markProcessed()
			done(err)
			return
		}
		if emitMap && !f.sourceMapInlineEffective() {
			if err := fsys.WriteFile(sourceMapPath, mapJSON, 0); err != nil {
				f.Error(err.Error())
				f.markProcessed()
				done(err)
				return
			}
		}
		f.ctx.RecordOutputs(f.srcPath, outputs...)
		f.markProcessed()
		done(nil)
	})
}

func (f *File) sourceMappingComment(savePath, url string) string {
	if f.pathIsJSLike(savePath) {
		return "\n//# sourceMappingURL=" + url + "\n"
	}
	return "\n/*# sourceMappingURL=" + url + " */\n"
}

// assembleSourceMapObject produces the emitted Source Map V3 object: the
// builder's mappings, with sources rewritten relative to the map's own
// directory (or via the SourceMapSource hook) and sourcesContent populated
// per the effective flags.
func (f *File) assembleSourceMapObject(savePath string) (*sourcemap.Object, error) {
	builder, err := f.SourceMap().Builder()
	if err != nil {
		return nil, err
	}

	base, err := builder.ToObject()
	if err != nil {
		return nil, err
	}

	hooks := f.ctx.Hooks()
	mapDir := pathutil.GetDir(savePath)

	sources := builder.Sources()
	rewritten := make([]string, len(sources))
	for i, src := range sources {
		if hooks.SourceMapSource != nil {
			if v, ok := hooks.SourceMapSource(f, src); ok {
				rewritten[i] = v
				continue
			}
		}
		if builder.SourceRoot != "" {
			rewritten[i] = src
			continue
		}
		rel, err := pathutil.RelativePath(mapDir, src)
		if err != nil {
			rewritten[i] = src
			continue
		}
		rewritten[i] = filepathToSlash(rel)
	}
	base.Sources = rewritten

	if f.sourceMapSourcesContentEffective() {
		content := make([]*string, len(sources))
		for i, src := range sources {
			if hooks.SourceMapSourceContent != nil {
				if v, ok := hooks.SourceMapSourceContent(f, src); ok {
					content[i] = &v
					continue
				}
			}
			if v, ok := builder.SourceContent(i); ok {
				content[i] = &v
				continue
			}
			if data, err := fsys.ReadFile(src); err == nil {
				v := string(data)
				content[i] = &v
			}
		}
		base.SourcesContent = content
	} else {
		base.SourcesContent = nil
	}

	if !f.sourceMapNamesEffective() {
		base.Names = nil
	}

	base.File = pathutil.Base(savePath)
	return base, nil
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
