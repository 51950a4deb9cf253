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

package fsys

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	require.NoError(t, WriteFile(path, []byte("hello"), 0))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestWriteFileLeavesNoTempFileBehind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteFile(path, []byte("hello"), 0))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCopyFilePreservesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, CopyFile(src, dst))

	got, err := ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestDeleteFileMissingIsNotAnError(t *testing.T) {
	require.NoError(t, DeleteFile(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestDeleteParentDirIfEmptyRemovesEmptyOnly(t *testing.T) {
	dir := t.TempDir()
	emptyChild := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(emptyChild, 0o755))

	fullChild := filepath.Join(dir, "full")
	require.NoError(t, os.Mkdir(fullChild, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fullChild, "keep.txt"), []byte("x"), 0o644))

	require.NoError(t, DeleteParentDirIfEmpty(filepath.Join(emptyChild, "gone.txt")))
	_, err := os.Stat(emptyChild)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, DeleteParentDirIfEmpty(filepath.Join(fullChild, "gone.txt")))
	_, err = os.Stat(fullChild)
	assert.NoError(t, err)
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	ok, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	ok, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadFileAsyncDeliversResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("async"), 0o644))

	done := make(chan struct{})
	var got []byte
	var gotErr error
	ReadFileAsync(path, func(data []byte, err error) {
		got, gotErr = data, err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async read did not complete")
	}
	require.NoError(t, gotErr)
	assert.Equal(t, "async", string(got))
}

func TestModTimeIsNonZeroAfterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	first, err := ModTime(path)
	require.NoError(t, err)
	assert.NotZero(t, first)
}
