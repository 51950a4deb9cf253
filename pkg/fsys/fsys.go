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

// Package fsys is the filesystem capability named in spec.md §6: the
// load/save/delete steps of pkg/vfile's File go through this package rather
// than calling os directly, in both synchronous and callback-style
// goroutine-backed async forms. It is a thin wrapper over os, not a
// third-party dependency — the corpus has no fsnotify/afero-style
// filesystem abstraction to ground one on, and spec.md §1 scopes raw I/O
// out of the core (see DESIGN.md).
package fsys

import (
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// ReadFile reads the whole contents of path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file %q: %w", path, err)
	}
	return data, nil
}

// ReadFileAsync reads path on a new goroutine, delivering the result to cb.
func ReadFileAsync(path string, cb func(data []byte, err error)) {
	go func() {
		cb(ReadFile(path))
	}()
}

// WriteFile writes content to path atomically: it writes to a sibling
// temp file and renames it into place, creating parent directories as
// needed.
func WriteFile(path string, content []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating parent directories for %q: %w", path, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, perm); err != nil {
		return errors.Errorf("writing temp file for %q: %w", path, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file into %q: %w", path, err)
	}
	return nil
}

// WriteFileAsync writes content to path on a new goroutine, delivering the
// error (if any) to cb.
func WriteFileAsync(path string, content []byte, perm os.FileMode, cb func(err error)) {
	go func() {
		cb(WriteFile(path, content, perm))
	}()
}

// CopyFile copies src to dst, creating dst's parent directory as needed
// and preserving src's file mode.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stating source %q: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source %q: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories for %q: %w", dst, err)
	}

	tempPath := dst + ".tmp"
	out, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.Errorf("creating temp file for %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tempPath)
		return errors.Errorf("copying %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file for %q: %w", dst, err)
	}
	if err := os.Rename(tempPath, dst); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file into %q: %w", dst, err)
	}
	return nil
}

// CopyFileAsync copies src to dst on a new goroutine, delivering the error
// (if any) to cb.
func CopyFileAsync(src, dst string, cb func(err error)) {
	go func() {
		cb(CopyFile(src, dst))
	}()
}

// DeleteFile removes path. A missing file is not an error.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("deleting file %q: %w", path, err)
	}
	return nil
}

// DeleteFileAsync removes path on a new goroutine, delivering the error
// (if any) to cb.
func DeleteFileAsync(path string, cb func(err error)) {
	go func() {
		cb(DeleteFile(path))
	}()
}

// DeleteParentDirIfEmpty removes path's parent directory if, after path's
// own deletion, it contains no more entries. It does not recurse upward:
// only the immediate parent is considered, matching the cleanup a single
// File.Delete performs.
func DeleteParentDirIfEmpty(path string) error {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("reading directory %q: %w", dir, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing empty directory %q: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking existence of %q: %w", path, err)
}

// ModTime returns path's last-modified time, used by watch-mode polling to
// detect changes without a filesystem-event library.
func ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Errorf("stating %q: %w", path, err)
	}
	return info.ModTime().UnixNano(), nil
}
