// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Attribute is an annotation on a declaration: @key, @key(value) or
// @key(name = value, ...). Option statements are stored as attributes with
// key [AttributeOption].
type Attribute struct {
	Key    Ident            `json:"key"`
	Values []AttributeValue `json:"values"`
}

// AttributeValue is one (name, value) pair of an attribute. Values written
// without a name use [AttributeUnnamed].
type AttributeValue struct {
	Name  string
	Value Constant
}

// KeyOnly returns a flag attribute, @key.
func KeyOnly(key string) Attribute {
	return Attribute{Key: NewIdent(key), Values: []AttributeValue{}}
}

// SingleValue returns @key(value).
func SingleValue(key string, value Constant) Attribute {
	return SingleKV(key, AttributeUnnamed, value)
}

// SingleKV returns @key(name = value).
func SingleKV(key, name string, value Constant) Attribute {
	return Attribute{
		Key:    NewIdent(key),
		Values: []AttributeValue{{Name: name, Value: value}},
	}
}

// SourceAttribute returns the attribute recording that a declaration starts
// at the given 1-based line and column.
func SourceAttribute(line, col int) Attribute {
	return Attribute{
		Key: NewIdent(AttributeSource),
		Values: []AttributeValue{
			{Name: "line", Value: U64(line)},
			{Name: "col", Value: U64(col)},
		},
	}
}

// Get returns the first value with the given name.
func (a *Attribute) Get(name string) (Constant, bool) {
	for _, v := range a.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

func (a *Attribute) String() string {
	if len(a.Values) == 0 {
		return "@" + a.Key.String()
	}
	var b strings.Builder
	b.WriteString("@" + a.Key.String() + "(")
	for i, v := range a.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		if v.Name != AttributeUnnamed {
			b.WriteString(v.Name + " = ")
		}
		b.WriteString(v.Value.String())
	}
	b.WriteString(")")
	return b.String()
}

// MarshalJSON writes the pair as a two element array.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{v.Name, v.Value})
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("attribute value: expected 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &v.Name); err != nil {
		return fmt.Errorf("attribute value: %w", err)
	}
	value, err := UnmarshalConstant(pair[1])
	if err != nil {
		return err
	}
	v.Value = value
	return nil
}

// Attributes is the list of attributes on a declaration, in source order.
type Attributes []Attribute

// Get returns the first attribute whose key, in dotted form, is key.
func (as Attributes) Get(key string) *Attribute {
	for i := range as {
		if as[i].Key.String() == key {
			return &as[i]
		}
	}
	return nil
}

// MarshalJSON writes an empty list rather than null.
func (as Attributes) MarshalJSON() ([]byte, error) {
	if as == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Attribute(as))
}

// HasAttributes is implemented by every declaration that carries attributes.
type HasAttributes interface {
	Attribute(key string) *Attribute
}

var (
	_ HasAttributes = (*Schema)(nil)
	_ HasAttributes = (*Message)(nil)
	_ HasAttributes = (*Field)(nil)
	_ HasAttributes = (*Enumeration)(nil)
	_ HasAttributes = (*EnumValue)(nil)
	_ HasAttributes = (*Service)(nil)
	_ HasAttributes = (*Method)(nil)
)
