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
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

// Object is the raw Source Map V3 JSON shape.
type Object struct {
	Version        int       `json:"version"`
	Sources        []string  `json:"sources"`
	Names          []string  `json:"names,omitempty"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Mappings       string    `json:"mappings"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
}

// form tags which of the three representations Data currently holds.
type form int

const (
	formObject form = iota
	formJSON
	formBuilder
)

// Data is an opaque handle carrying a source map in one of three forms: a
// raw object, a serialized JSON string, or a builder. Conversions between
// forms are idempotent and lossless except that a string<->object
// round-trip passes through JSON (property order/whitespace is not
// preserved, the mapping data is).
type Data struct {
	form    form
	object  *Object
	json    string
	builder *Builder
}

// FromObject wraps a raw object.
func FromObject(obj *Object) *Data { return &Data{form: formObject, object: obj} }

// FromJSON wraps a serialized JSON string.
func FromJSON(s string) *Data { return &Data{form: formJSON, json: s} }

// FromBuilder wraps a builder.
func FromBuilder(b *Builder) *Data { return &Data{form: formBuilder, builder: b} }

// IsEmpty reports whether no source map was ever set.
func (d *Data) IsEmpty() bool { return d == nil }

// Object coerces the handle to raw object form.
func (d *Data) Object() (*Object, error) {
	if d == nil {
		return nil, errors.Errorf("no source map data")
	}
	switch d.form {
	case formObject:
		return d.object, nil
	case formJSON:
		var obj Object
		if err := json.Unmarshal([]byte(d.json), &obj); err != nil {
			return nil, errors.Errorf("unmarshalling source map JSON: %w", err)
		}
		return &obj, nil
	case formBuilder:
		return d.builder.ToObject()
	default:
		return nil, errors.Errorf("unknown source map form")
	}
}

// JSON coerces the handle to a serialized JSON string.
func (d *Data) JSON() (string, error) {
	if d == nil {
		return "", errors.Errorf("no source map data")
	}
	if d.form == formJSON {
		return d.json, nil
	}
	obj, err := d.Object()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return "", errors.Errorf("marshalling source map: %w", err)
	}
	return string(b), nil
}

// Builder coerces the handle to builder form.
func (d *Data) Builder() (*Builder, error) {
	if d == nil {
		return nil, errors.Errorf("no source map data")
	}
	if d.form == formBuilder {
		return d.builder, nil
	}
	obj, err := d.Object()
	if err != nil {
		return nil, err
	}
	return ToBuilder(obj)
}
