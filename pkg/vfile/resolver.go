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

import "github.com/weftbuild/weft/pkg/sourcemap"

// builderResolver adapts a *sourcemap.Builder to logentry.Resolver, which
// deliberately has a narrower signature so that package logentry does not
// need to import pkg/sourcemap's full API.
type builderResolver struct {
	b *sourcemap.Builder
}

func (r builderResolver) GetSource(line, col int) (path string, content string, hasContent bool, origLine, origCol int, found bool) {
	pos := r.b.GetSource(line, col)
	return pos.SourcePath, pos.SourceContent, pos.HasContent, pos.Line, pos.Column, pos.Found
}
