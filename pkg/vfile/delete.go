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

import "github.com/weftbuild/weft/pkg/fsys"

// Delete removes this file's source path, optionally removing its parent
// directory if doing so leaves it empty, and marks the file processed.
// Used by FileList.Delete, symmetric to Save/FileList.Dest.
func (f *File) Delete(removeEmptyParent bool, done func(error)) {
	srcPath := f.srcPath
	if srcPath == "" {
		f.markProcessed()
		done(nil)
		return
	}

	fsys.DeleteFileAsync(srcPath, func(err error) {
		if err != nil {
			f.Error(err.Error())
			f.markProcessed()
			done(err)
			return
		}
		if removeEmptyParent {
			if err := fsys.DeleteParentDirIfEmpty(srcPath); err != nil {
				f.Error(err.Error())
			}
		}
		f.markProcessed()
		done(nil)
	})
}

// deletePathAndSiblingMap deletes path and the sibling "<path>.map" (if
// present), then removes path's parent directory if it is now empty. Used
// by Save's clean-mode dispatch, which operates on savePath rather than
// srcPath.
func deletePathAndSiblingMap(path string) error {
	if path == "" {
		return nil
	}
	if err := fsys.DeleteFile(path); err != nil {
		return err
	}
	if err := fsys.DeleteFile(path + ".map"); err != nil {
		return err
	}
	return fsys.DeleteParentDirIfEmpty(path)
}
