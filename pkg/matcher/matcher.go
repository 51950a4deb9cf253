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

// Package matcher is the path-matching capability named in spec.md §6,
// used by pkg/filelist.Src's glob arguments and by
// pkg/vfile.File.Match. Glob patterns use doublestar syntax (including "**")
// so pipeline configs can express the same ignore/include globs the rest
// of the corpus already writes.
package matcher

import (
	"os"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Matcher decides whether a path satisfies some pattern.
type Matcher interface {
	Test(path string) bool
}

type globMatcher struct {
	pattern string
}

// Glob builds a Matcher from a doublestar glob pattern (e.g. "src/**/*.js").
// An invalid pattern is reported at match time as Matcher.Test false rather
// than at construction, so that Glob itself never fails — callers that need
// eager validation should call ValidateGlob first.
func Glob(pattern string) Matcher {
	return globMatcher{pattern: pattern}
}

// ValidateGlob reports whether pattern is syntactically valid doublestar
// glob syntax.
func ValidateGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return errors.Errorf("invalid glob pattern %q", pattern)
	}
	return nil
}

func (g globMatcher) Test(path string) bool {
	matched, err := doublestar.Match(g.pattern, path)
	if err != nil {
		return false
	}
	return matched
}

type regexMatcher struct {
	re *regexp.Regexp
}

// Regex builds a Matcher from a compiled regular expression.
func Regex(re *regexp.Regexp) Matcher {
	return regexMatcher{re: re}
}

func (r regexMatcher) Test(path string) bool {
	return r.re.MatchString(path)
}

// Predicate adapts a plain function to the Matcher interface.
type Predicate func(path string) bool

func (p Predicate) Test(path string) bool { return p(path) }

// Any reports whether path matches at least one of matchers. An empty
// matcher list matches nothing.
func Any(path string, matchers ...Matcher) bool {
	for _, m := range matchers {
		if m.Test(path) {
			return true
		}
	}
	return false
}

// All reports whether path matches every one of matchers. An empty matcher
// list matches everything, consistent with an unconstrained filter.
func All(path string, matchers ...Matcher) bool {
	for _, m := range matchers {
		if !m.Test(path) {
			return false
		}
	}
	return true
}

// Not inverts a Matcher, used to build exclusion filters from ignore globs.
func Not(m Matcher) Matcher {
	return Predicate(func(path string) bool { return !m.Test(path) })
}

// ExpandGlob returns the files under root matching pattern, used by
// pkg/engine's source scan (Pipeline and Watch) to expand a source glob
// into a concrete file list.
func ExpandGlob(root, pattern string) ([]string, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, errors.Errorf("expanding glob %q under %q: %w", pattern, root, err)
	}
	return matches, nil
}
