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

// Package pathutil is the path capability named in spec.md §6: the core
// (pkg/vfile, pkg/filelist) consumes it as a named collaborator rather than
// calling path/filepath directly, so that path resolution stays swappable.
// It is a thin wrapper over path/filepath, not a third-party dependency:
// spec.md §1 places path utilities out of scope for the core, and no repo
// in the corpus ships a bespoke path-manipulation library where
// path/filepath would do (see DESIGN.md).
package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolvePath resolves path against base (the working directory) if it is
// not already absolute.
func ResolvePath(base, path string) string {
	if path == "" {
		return base
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// RelativePath returns target expressed relative to base.
func RelativePath(base, target string) (string, error) {
	return filepath.Rel(base, target)
}

// GetDir returns the directory portion of path.
func GetDir(path string) string {
	return filepath.Dir(path)
}

// ChangeDir returns path with its directory replaced by dir, keeping the
// base name.
func ChangeDir(path, dir string) string {
	return filepath.Join(dir, filepath.Base(path))
}

// Base returns the last element of path.
func Base(path string) string {
	return filepath.Base(path)
}

// GetExt returns the extension of path, including the leading dot.
func GetExt(path string) string {
	return filepath.Ext(path)
}

// ChangeExt returns path with its extension replaced by ext (which should
// include the leading dot, or be empty to remove the extension).
func ChangeExt(path, ext string) string {
	trimmed := strings.TrimSuffix(path, filepath.Ext(path))
	return trimmed + ext
}

// InDir reports whether path is contained within dir.
func InDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// caseInsensitiveFS reports whether the current platform's default
// filesystem treats paths case-insensitively.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// PathEquals compares two paths for equality, case-insensitively on
// platforms whose default filesystem is case-insensitive.
func PathEquals(a, b string) bool {
	a = filepath.Clean(a)
	b = filepath.Clean(b)
	if caseInsensitiveFS {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Getwd is a small indirection over os.Getwd kept here so callers do not
// need to import "os" solely for the working directory.
func Getwd() (string, error) {
	return os.Getwd()
}
