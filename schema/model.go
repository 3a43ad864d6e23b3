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
)

// Schema is the parsed form of one MIDL file.
type Schema struct {
	Namespace  Ident         `json:"namespace"`
	Messages   []Message     `json:"messages"`
	Enums      []Enumeration `json:"enums"`
	Services   []Service     `json:"services"`
	Attributes Attributes    `json:"attributes"`
}

func (s *Schema) Attribute(key string) *Attribute { return s.Attributes.Get(key) }

// Message returns the top-level message with the given name.
func (s *Schema) Message(name string) *Message {
	for i := range s.Messages {
		if s.Messages[i].Name.Name == name {
			return &s.Messages[i]
		}
	}
	return nil
}

// Service returns the service with the given name.
func (s *Schema) Service(name string) *Service {
	for i := range s.Services {
		if s.Services[i].Name.Name == name {
			return &s.Services[i]
		}
	}
	return nil
}

// Message is a message declaration. Nested messages and enums are kept in
// the order they were declared.
type Message struct {
	Name       Ident         `json:"name"`
	Fields     []Field       `json:"fields"`
	Messages   []Message     `json:"messages"`
	Enums      []Enumeration `json:"enums"`
	Attributes Attributes    `json:"attributes"`
}

func (m *Message) Attribute(key string) *Attribute { return m.Attributes.Get(key) }

// Field returns the field with the given name.
func (m *Message) Field(name string) *Field {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i]
		}
	}
	return nil
}

// Field is a field of a message.
type Field struct {
	Name       string     `json:"name"`
	Optional   bool       `json:"optional"`
	Type       FieldType  `json:"typ"`
	Number     uint32     `json:"number"`
	Attributes Attributes `json:"attributes"`
}

func (f *Field) Attribute(key string) *Attribute { return f.Attributes.Get(key) }

// DefaultValue returns the value of @default(value = ...), if present.
func (f *Field) DefaultValue() (Constant, bool) {
	attr := f.Attribute("default")
	if attr == nil {
		return nil, false
	}
	return attr.Get("value")
}

func (f *Field) UnmarshalJSON(data []byte) error {
	type plain Field
	var raw struct {
		plain
		Type json.RawMessage `json:"typ"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	typ, err := UnmarshalFieldType(raw.Type)
	if err != nil {
		return fmt.Errorf("field %s: %w", raw.Name, err)
	}
	*f = Field(raw.plain)
	f.Type = typ
	return nil
}

// Enumeration is an enum declaration.
type Enumeration struct {
	Name       string      `json:"name"`
	Values     []EnumValue `json:"values"`
	Attributes Attributes  `json:"attributes"`
}

func (e *Enumeration) Attribute(key string) *Attribute { return e.Attributes.Get(key) }

// Value returns the value with the given name.
func (e *Enumeration) Value(name string) *EnumValue {
	for i := range e.Values {
		if e.Values[i].Name == name {
			return &e.Values[i]
		}
	}
	return nil
}

// EnumValue is one value of an enum.
type EnumValue struct {
	Name       string     `json:"name"`
	Number     int32      `json:"number"`
	Attributes Attributes `json:"attributes"`
}

func (v *EnumValue) Attribute(key string) *Attribute { return v.Attributes.Get(key) }

// Service is a service declaration.
//
// Schema and SchemaID are derived once the whole file has been parsed; see
// [Schema.AssignServiceIDs].
type Service struct {
	Name       Ident      `json:"name"`
	Methods    []Method   `json:"methods"`
	Attributes Attributes `json:"attributes"`
	Schema     string     `json:"schema,omitempty"`
	SchemaID   string     `json:"schema_id,omitempty"`
}

func (s *Service) Attribute(key string) *Attribute { return s.Attributes.Get(key) }

// Method returns the method with the given name.
func (s *Service) Method(name string) *Method {
	for i := range s.Methods {
		if s.Methods[i].Name == name {
			return &s.Methods[i]
		}
	}
	return nil
}

// CompatibleWith reports whether both services have been assigned the same
// schema ID, meaning that they were compiled from the same definitions.
func (s *Service) CompatibleWith(other *Service) bool {
	return s.SchemaID != "" && s.SchemaID == other.SchemaID
}

// Method is an rpc of a service. A nil InputType means the method takes no
// arguments; a nil OutputType means it returns nothing.
type Method struct {
	Name       string     `json:"name"`
	InputType  FieldType  `json:"input_type"`
	OutputType FieldType  `json:"output_type"`
	Attributes Attributes `json:"attributes"`
}

func (m *Method) Attribute(key string) *Attribute { return m.Attributes.Get(key) }

func (m *Method) UnmarshalJSON(data []byte) error {
	type plain Method
	var raw struct {
		plain
		InputType  json.RawMessage `json:"input_type"`
		OutputType json.RawMessage `json:"output_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Method(raw.plain)
	for _, t := range []struct {
		data json.RawMessage
		dst  *FieldType
	}{
		{raw.InputType, &m.InputType},
		{raw.OutputType, &m.OutputType},
	} {
		if len(t.data) == 0 {
			continue
		}
		typ, err := UnmarshalFieldType(t.data)
		if err != nil {
			return fmt.Errorf("method %s: %w", m.Name, err)
		}
		*t.dst = typ
	}
	return nil
}
