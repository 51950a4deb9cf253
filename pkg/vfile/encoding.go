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

import "encoding/base64"

// Encoding names a text<->bytes conversion applied when a File's buffer and
// content slots are derived from one another.
type Encoding string

const (
	// EncodingUTF8 treats bytes as UTF-8 text; the conversion is a direct
	// reinterpretation with no transformation of the underlying bytes.
	EncodingUTF8 Encoding = "utf8"
	// EncodingBinary marks content that should never be treated as text;
	// Content()/SrcContent() still return the bytes reinterpreted as a
	// string so callers always have a usable accessor, but round-tripping
	// through Buffer() is guaranteed byte-for-byte.
	EncodingBinary Encoding = "binary"
	// EncodingBase64 stores content as the base64 encoding of the bytes.
	EncodingBase64 Encoding = "base64"
)

// Decode converts bytes to their text representation under e.
func (e Encoding) Decode(buf []byte) string {
	switch e {
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(buf)
	default:
		return string(buf)
	}
}

// Encode converts text back to bytes under e.
func (e Encoding) Encode(content string) []byte {
	switch e {
	case EncodingBase64:
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return []byte(content)
		}
		return data
	default:
		return []byte(content)
	}
}
