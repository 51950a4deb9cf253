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

// Package replace is the builtin text-replacement processor: a sequence
// of literal old/new substitutions applied to each file's content,
// optionally restricted to files matching a glob.
package replace

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/filelist"
	"github.com/weftbuild/weft/pkg/matcher"
	"github.com/weftbuild/weft/pkg/vfile"
)

// Rule is one literal substitution, optionally scoped to files matching
// File (a glob); an empty File applies the rule to every file.
type Rule struct {
	Old  string
	New  string
	File string
}

// New builds the replace Processor from a set of rules, usable directly
// in a programmatically-assembled pipeline.
func New(rules []Rule) filelist.Processor {
	return filelist.Sync(func(f *vfile.File) {
		applyRules(f, rules)
	})
}

// FromOptions adapts New to a config step, returning New's Sync processor
// with its rules decoded
// out of a pipeline step's options (as loaded from YAML/HCL, where a rule
// is a map with "old"/"new"/"file" keys under an "replacements" list).
func FromOptions(opts filelist.Options) filelist.Processor {
	rules, err := rulesFromOptions(opts)
	if err != nil {
		return filelist.Sync(func(f *vfile.File) {
			f.Error(fmt.Sprintf("replace: %s", err))
		})
	}
	return New(rules)
}

func applyRules(f *vfile.File, rules []Rule) {
	content, err := f.Content()
	if err != nil {
		f.Error(err.Error())
		return
	}

	modified := content
	changed := false
	for _, r := range rules {
		if r.Old == "" {
			continue
		}
		if r.File != "" && !matcher.Glob(r.File).Test(f.Path()) {
			continue
		}
		if strings.Contains(modified, r.Old) {
			changed = true
			modified = strings.ReplaceAll(modified, r.Old, r.New)
		}
	}

	if changed {
		f.SetContent(modified)
	}
}

func rulesFromOptions(opts filelist.Options) ([]Rule, error) {
	raw, ok := opts["replacements"]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case []Rule:
		return v, nil
	case []any:
		rules := make([]Rule, 0, len(v))
		for i, item := range v {
			rule, err := ruleFromAny(item)
			if err != nil {
				return nil, errors.Errorf("replacements[%d]: %w", i, err)
			}
			rules = append(rules, rule)
		}
		return rules, nil
	default:
		return nil, errors.Errorf("replacements must be a list, got %T", raw)
	}
}

func ruleFromAny(item any) (Rule, error) {
	m, ok := item.(map[string]any)
	if !ok {
		if m2, ok2 := item.(map[any]any); ok2 {
			m = make(map[string]any, len(m2))
			for k, val := range m2 {
				if ks, ok := k.(string); ok {
					m[ks] = val
				}
			}
		} else {
			return Rule{}, errors.Errorf("must be a map, got %T", item)
		}
	}

	old, _ := m["old"].(string)
	nw, _ := m["new"].(string)
	file, _ := m["file"].(string)
	if old == "" {
		return Rule{}, errors.New("old is required")
	}
	return Rule{Old: old, New: nw, File: file}, nil
}
