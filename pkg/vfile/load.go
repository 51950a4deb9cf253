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

// Load reads the source file asynchronously, populating srcBuffer, unless
// content is already present or the working mode is clean. Read errors are
// attached to the file as a diagnostic rather than returned — the pipeline
// continues regardless. done is always invoked exactly once.
func (f *File) Load(done func()) {
	f.mu.Lock()
	if f.srcBuffer.set || f.srcContent.set || f.destBuffer.set || f.destContent.set {
		f.mu.Unlock()
		done()
		return
	}
	mode := f.ctx.Mode()
	srcPath := f.srcPath
	f.mu.Unlock()

	if mode == ModeClean || srcPath == "" {
		f.mu.Lock()
		f.srcBuffer = bytesSlot{data: []byte{}, set: true}
		f.mu.Unlock()
		done()
		return
	}

	fsys.ReadFileAsync(srcPath, func(data []byte, err error) {
		if err != nil {
			f.Error(err.Error())
			done()
			return
		}
		f.mu.Lock()
		f.srcBuffer = bytesSlot{data: data, set: true}
		f.mu.Unlock()
		done()
	})
}
