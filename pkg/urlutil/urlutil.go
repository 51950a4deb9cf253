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

// Package urlutil is the URL capability named in spec.md §6, used by
// pkg/vfile's File.Resolve/File.Relative (query/fragment-preserving path
// math) and by the inline source-map data URI emitted in File.Save. Like
// pkg/pathutil, it wraps the standard library rather than a third-party
// dependency — spec.md §1 scopes URL utilities out of the core, and the
// corpus has no bespoke URL-manipulation library to ground one on.
package urlutil

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// relPath computes a "/"-separated relative path from dir to target,
// independent of OS path semantics (URLs are always "/"-separated).
func relPath(dir, target string) string {
	dirParts := splitClean(dir)
	targetParts := splitClean(target)

	i := 0
	for i < len(dirParts) && i < len(targetParts) && dirParts[i] == targetParts[i] {
		i++
	}

	var up []string
	for range dirParts[i:] {
		up = append(up, "..")
	}
	rel := append(up, targetParts[i:]...)
	if len(rel) == 0 {
		return "."
	}
	return strings.Join(rel, "/")
}

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

func splitClean(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ResolveURL resolves ref against base, preserving ref's query/fragment.
func ResolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

// RelativeURL expresses target relative to base's path, preserving
// target's query/fragment.
func RelativeURL(base, target string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	out := *targetURL
	out.Path = relPath(strings.TrimSuffix(baseURL.Path, "/"+pathBase(baseURL.Path)), targetURL.Path)
	return out.String(), nil
}

// Base64URI builds a "data:<mime>;base64,<payload>" URI, used to inline a
// source map into its generated file.
func Base64URI(mime string, payload []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(payload))
}
