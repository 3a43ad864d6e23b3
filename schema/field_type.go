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

//go:generate go run github.com/frodobuf/midl/internal/enum scalar.yaml

// FieldType is the type of a field or of an rpc argument or result. It is a
// [Scalar], a [Map], an [Array] or an [ObjectOrEnum].
type FieldType interface {
	fmt.Stringer
	json.Marshaler

	// IsInteger reports whether this is one of the integer scalars.
	IsInteger() bool

	isFieldType()
}

// Map is map<Key, Value>. Key is always an integer scalar or TypeString.
type Map struct {
	Key, Value FieldType
}

// Array is [Elem], or a field declared repeated.
type Array struct {
	Elem FieldType
}

// ObjectOrEnum names a message or enum. Whether it resolves to anything is
// not checked.
type ObjectOrEnum struct {
	Name Ident
}

func (Scalar) isFieldType()       {}
func (Map) isFieldType()          {}
func (Array) isFieldType()        {}
func (ObjectOrEnum) isFieldType() {}

func (v Scalar) IsInteger() bool {
	switch v {
	case TypeInt8, TypeInt32, TypeInt64, TypeUint8, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

func (Map) IsInteger() bool          { return false }
func (Array) IsInteger() bool        { return false }
func (ObjectOrEnum) IsInteger() bool { return false }

func (t Map) String() string {
	return fmt.Sprintf("map<%v, %v>", t.Key, t.Value)
}

func (t Array) String() string {
	return fmt.Sprintf("[%v]", t.Elem)
}

func (t ObjectOrEnum) String() string {
	return t.Name.String()
}

// MarshalJSON writes a scalar as its bare name.
func (v Scalar) MarshalJSON() ([]byte, error) {
	if _, ok := ParseScalar(v.String()); !ok {
		return nil, fmt.Errorf("invalid scalar %v", v)
	}
	return json.Marshal(v.String())
}

func (t Map) MarshalJSON() ([]byte, error) {
	return marshalVariant("Map", [2]FieldType{t.Key, t.Value})
}

func (t Array) MarshalJSON() ([]byte, error) {
	return marshalVariant("Array", t.Elem)
}

func (t ObjectOrEnum) MarshalJSON() ([]byte, error) {
	return marshalVariant("ObjectOrEnum", t.Name)
}

// UnmarshalFieldType decodes a FieldType written by one of the MarshalJSON
// methods in this package. A JSON null decodes to a nil FieldType.
func UnmarshalFieldType(data []byte) (FieldType, error) {
	var name *string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == nil {
			return nil, nil
		}
		scalar, ok := ParseScalar(*name)
		if !ok {
			return nil, fmt.Errorf("field type: unknown scalar %q", *name)
		}
		return scalar, nil
	}

	tag, value, err := unmarshalVariant(data)
	if err != nil {
		return nil, fmt.Errorf("field type: %w", err)
	}
	switch tag {
	case "Map":
		var pair []json.RawMessage
		if err := json.Unmarshal(value, &pair); err != nil {
			return nil, fmt.Errorf("field type: Map: %w", err)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("field type: Map: expected 2 elements, got %d", len(pair))
		}
		key, err := UnmarshalFieldType(pair[0])
		if err != nil {
			return nil, err
		}
		val, err := UnmarshalFieldType(pair[1])
		if err != nil {
			return nil, err
		}
		return Map{Key: key, Value: val}, nil
	case "Array":
		elem, err := UnmarshalFieldType(value)
		if err != nil {
			return nil, err
		}
		return Array{Elem: elem}, nil
	case "ObjectOrEnum":
		var id Ident
		if err := json.Unmarshal(value, &id); err != nil {
			return nil, fmt.Errorf("field type: ObjectOrEnum: %w", err)
		}
		return ObjectOrEnum{Name: id}, nil
	default:
		return nil, fmt.Errorf("field type: unknown variant %q", tag)
	}
}
