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

// Package config loads a pipeline description from disk through a small
// parser registry, supporting both YAML and HCL syntax for the same
// logical schema.
package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Parser parses a config file format into a Config.
type Parser interface {
	Parse(ctx context.Context, data []byte) (*Config, error)
	CanParse(filename string) bool
}

var parsers []Parser

// Register adds a parser to the registry consulted by Load.
func Register(p Parser) {
	parsers = append(parsers, p)
}

// GetParser returns the first registered parser that claims filename, or
// nil if none does.
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Step is one stage of the pipeline: a processor name (a builtin like
// "replace", a relative plugin path, or a bare name resolved remotely by
// pkg/plugin), an optional glob filter narrowing which files reach it, and
// processor-specific options passed through verbatim.
type Step struct {
	Name    string         `json:"name" yaml:"name"`
	Pattern []string       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Config is the complete description of one pipeline run.
type Config struct {
	Src         []string `json:"src" yaml:"src"`
	Pipeline    []Step   `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	Destination string   `json:"destination" yaml:"destination"`

	Mode      string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`

	DefaultEncoding string `json:"default_encoding,omitempty" yaml:"default_encoding,omitempty"`

	SourceMaps               bool `json:"source_maps,omitempty" yaml:"source_maps,omitempty"`
	SourceMapsInline         bool `json:"source_maps_inline,omitempty" yaml:"source_maps_inline,omitempty"`
	SourceMapsNames          bool `json:"source_maps_names,omitempty" yaml:"source_maps_names,omitempty"`
	SourceMapsSourcesContent bool `json:"source_maps_sources_content,omitempty" yaml:"source_maps_sources_content,omitempty"`
}

// Load reads path, selects a parser by extension, and parses+validates.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading pipeline configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks required fields and fills in defaults.
func (cfg *Config) Validate() error {
	if len(cfg.Src) == 0 {
		return errors.Errorf("src is required")
	}
	if cfg.Destination == "" {
		return errors.Errorf("destination is required")
	}
	switch cfg.Mode {
	case "", "build", "preview", "clean", "watch":
	default:
		return errors.Errorf("unknown mode: %s", cfg.Mode)
	}
	if cfg.Mode == "" {
		cfg.Mode = "build"
	}
	if cfg.DefaultEncoding == "" {
		cfg.DefaultEncoding = "utf8"
	}
	return nil
}

// YAMLParser implements Parser for .yaml/.yml files.
type YAMLParser struct{}

func init() { Register(&YAMLParser{}) }

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// HCLParser implements Parser for .hcl files.
type HCLParser struct{}

func init() { Register(&HCLParser{}) }

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// hclStep mirrors Step with hcl struct tags. Each pipeline block is labeled
// with the processor name; whatever attributes remain after "pattern" is
// consumed become the processor's options.
type hclStep struct {
	Name    string   `hcl:"name,label"`
	Pattern []string `hcl:"pattern,optional"`
	Remain  hcl.Body `hcl:",remain"`
}

// hclConfig mirrors Config with hcl struct tags. gohcl.ImpliedBodySchema
// builds its schema from these tags, so decoding must go through this type
// rather than Config directly, which carries only json/yaml tags.
type hclConfig struct {
	Src                      []string  `hcl:"src"`
	Pipeline                 []hclStep `hcl:"pipeline,block"`
	Destination              string    `hcl:"destination"`
	Mode                     string    `hcl:"mode,optional"`
	Overwrite                bool      `hcl:"overwrite,optional"`
	DefaultEncoding          string    `hcl:"default_encoding,optional"`
	SourceMaps               bool      `hcl:"source_maps,optional"`
	SourceMapsInline         bool      `hcl:"source_maps_inline,optional"`
	SourceMapsNames          bool      `hcl:"source_maps_names,optional"`
	SourceMapsSourcesContent bool      `hcl:"source_maps_sources_content,optional"`
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "weft.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Src:                      raw.Src,
		Destination:              raw.Destination,
		Mode:                     raw.Mode,
		Overwrite:                raw.Overwrite,
		DefaultEncoding:          raw.DefaultEncoding,
		SourceMaps:               raw.SourceMaps,
		SourceMapsInline:         raw.SourceMapsInline,
		SourceMapsNames:          raw.SourceMapsNames,
		SourceMapsSourcesContent: raw.SourceMapsSourcesContent,
	}

	for _, s := range raw.Pipeline {
		attrs, diags := s.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding pipeline %q options: %s", s.Name, diags.Error())
		}

		var opts map[string]any
		if len(attrs) > 0 {
			opts = make(map[string]any, len(attrs))
			for name, attr := range attrs {
				val, diags := attr.Expr.Value(evalCtx)
				if diags.HasErrors() {
					return nil, errors.Errorf("decoding pipeline %q option %q: %s", s.Name, name, diags.Error())
				}
				opts[name] = ctyValueToAny(val)
			}
		}

		cfg.Pipeline = append(cfg.Pipeline, Step{Name: s.Name, Pattern: s.Pattern, Options: opts})
	}

	return cfg, nil
}

// ctyValueToAny converts a decoded HCL attribute value into the same plain
// Go types the YAML parser would produce, so a Step's Options map has a
// consistent shape regardless of source format.
func ctyValueToAny(v cty.Value) any {
	if v.IsNull() {
		return nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString()
	case t == cty.Bool:
		return v.True()
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	case t.IsListType(), t.IsTupleType(), t.IsSetType():
		out := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyValueToAny(ev))
		}
		return out
	case t.IsMapType(), t.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = ctyValueToAny(ev)
		}
		return out
	default:
		return nil
	}
}
