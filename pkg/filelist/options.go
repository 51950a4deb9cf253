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

package filelist

// Options carries per-stage configuration handed to a Processor.Factory
// constructor. A nil Options passed to Pipe is replaced with an empty,
// effectively read-only map: callers should treat any Options value they
// receive as immutable, the same guarantee a frozen options object gives
// in the source system.
type Options map[string]any

func frozenOptions(opts Options) Options {
	if opts != nil {
		return opts
	}
	return Options{}
}
