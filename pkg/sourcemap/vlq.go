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

package sourcemap

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends the base64-VLQ encoding of each int in nums to sb, per
// the Source Map V3 specification (sign in the low bit, 5 data bits per
// digit, continuation bit in the high bit).
func encodeVLQ(sb *strings.Builder, nums ...int) {
	for _, n := range nums {
		v := n << 1
		if n < 0 {
			v = (-n << 1) | 1
		}
		for {
			digit := v & 0x1f
			v >>= 5
			if v > 0 {
				digit |= 0x20
			}
			sb.WriteByte(base64Chars[digit])
			if v == 0 {
				break
			}
		}
	}
}

// decodeVLQSegment decodes consecutive VLQ values from s starting at pos,
// stopping at a ',' or ';' or end of string. Returns the decoded values and
// the position just past the last consumed character.
func decodeVLQSegment(s string, pos int) ([]int, int, error) {
	var out []int
	for pos < len(s) && s[pos] != ',' && s[pos] != ';' {
		val, next, err := decodeVLQValue(s, pos)
		if err != nil {
			return nil, pos, err
		}
		out = append(out, val)
		pos = next
	}
	return out, pos, nil
}

func decodeVLQValue(s string, pos int) (int, int, error) {
	result := 0
	shift := 0
	for {
		if pos >= len(s) {
			return 0, pos, errors.Errorf("truncated VLQ value")
		}
		c := s[pos]
		digit := strings.IndexByte(base64Chars, c)
		if digit < 0 {
			return 0, pos, errors.Errorf("invalid VLQ character %q", c)
		}
		pos++
		cont := digit & 0x20
		result |= (digit & 0x1f) << shift
		shift += 5
		if cont == 0 {
			break
		}
	}
	negative := result&1 == 1
	result >>= 1
	if negative {
		result = -result
	}
	return result, pos, nil
}
