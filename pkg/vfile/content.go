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
	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/fsys"
)

// SrcBuffer returns the source file's raw bytes, lifting them from disk on
// first access. In clean working mode, or for a generated file, this
// returns an empty, non-nil slice without touching disk.
func (f *File) SrcBuffer() ([]byte, error) {
	f.mu.Lock()
	if f.srcBuffer.set {
		data := f.srcBuffer.data
		f.mu.Unlock()
		return data, nil
	}
	mode := f.ctx.Mode()
	srcPath := f.srcPath
	f.mu.Unlock()

	if mode == ModeClean || srcPath == "" {
		f.mu.Lock()
		f.srcBuffer = bytesSlot{data: []byte{}, set: true}
		f.mu.Unlock()
		return []byte{}, nil
	}

	data, err := fsys.ReadFile(srcPath)
	if err != nil {
		f.Error(err.Error())
		return []byte{}, nil
	}

	f.mu.Lock()
	f.srcBuffer = bytesSlot{data: data, set: true}
	f.mu.Unlock()
	return data, nil
}

// SrcContent returns the source file's text, decoded per Encoding.
func (f *File) SrcContent() (string, error) {
	f.mu.Lock()
	if f.srcContent.set {
		data := f.srcContent.data
		f.mu.Unlock()
		return data, nil
	}
	f.mu.Unlock()

	buf, err := f.SrcBuffer()
	if err != nil {
		return "", err
	}
	content := f.Encoding().Decode(buf)

	f.mu.Lock()
	f.srcContent = stringSlot{data: content, set: true}
	f.mu.Unlock()
	return content, nil
}

// Buffer returns the file's current bytes: the dest slot if populated
// (converting from destContent if only that is set), else the source
// bytes.
func (f *File) Buffer() ([]byte, error) {
	f.mu.Lock()
	if f.destBuffer.set {
		data := f.destBuffer.data
		f.mu.Unlock()
		return data, nil
	}
	if f.destContent.set {
		content := f.destContent.data
		f.mu.Unlock()
		return f.Encoding().Encode(content), nil
	}
	f.mu.Unlock()
	return f.SrcBuffer()
}

// Content returns the file's current text: the dest slot if populated
// (converting from destBuffer if only that is set), else the source text.
func (f *File) Content() (string, error) {
	f.mu.Lock()
	if f.destContent.set {
		data := f.destContent.data
		f.mu.Unlock()
		return data, nil
	}
	if f.destBuffer.set {
		buf := f.destBuffer.data
		f.mu.Unlock()
		return f.Encoding().Decode(buf), nil
	}
	f.mu.Unlock()
	return f.SrcContent()
}

// SetBuffer writes raw bytes to the dest slot, clearing destContent, and
// marks the file modified.
func (f *File) SetBuffer(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destBuffer = bytesSlot{data: data, set: true}
	f.destContent = stringSlot{}
	f.invalidateIndexesLocked()
}

// SetContent writes text to the dest slot, clearing destBuffer, and marks
// the file modified.
func (f *File) SetContent(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destContent = stringSlot{data: content, set: true}
	f.destBuffer = bytesSlot{}
	f.invalidateIndexesLocked()
}

// Data is an alias for Buffer, named to match the "data" constructor
// parameter and the generic content-accessor family.
func (f *File) Data() ([]byte, error) {
	return f.Buffer()
}

// SetData accepts a string or []byte and dispatches to SetContent or
// SetBuffer accordingly.
func (f *File) SetData(data any) error {
	switch v := data.(type) {
	case string:
		f.SetContent(v)
		return nil
	case []byte:
		f.SetBuffer(v)
		return nil
	default:
		return errors.Errorf("vfile.SetData: data must be string or []byte, got %T", v)
	}
}
