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

//go:build linux || darwin

package plugin

import (
	stdplugin "plugin"

	"gitlab.com/tozd/go/errors"

	"github.com/weftbuild/weft/pkg/filelist"
)

func openPlugin(path string) (ProcessorFunc, error) {
	p, err := stdplugin.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening plugin %s: %w", path, err)
	}
	sym, err := p.Lookup(Symbol)
	if err != nil {
		return nil, errors.Errorf("plugin %s missing symbol %s: %w", path, Symbol, err)
	}
	typed, ok := sym.(func(opts filelist.Options) filelist.Processor)
	if !ok {
		return nil, errors.Errorf("plugin %s symbol %s has wrong type %T", path, Symbol, sym)
	}
	return ProcessorFunc(typed), nil
}
