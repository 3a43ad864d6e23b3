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
	"math"
	"strconv"
)

// Constant is a literal value appearing in source: the value of an attribute
// or an option. It is one of [U64], [I64], [F64], [Bool], [IdentRef],
// [String] or [Bytes].
//
// String renders the value for people; [Bytes] never shows its contents.
type Constant interface {
	fmt.Stringer
	json.Marshaler

	isConstant()
}

type (
	// U64 is an unsigned integer constant. Integer literals without a sign
	// are always U64.
	U64 uint64
	// I64 is a negative integer constant.
	I64 int64
	// F64 is a floating point constant.
	F64 float64
	// Bool is true or false.
	Bool bool
	// IdentRef refers to a previously defined constant by name.
	IdentRef Ident
	// String is a decoded string literal.
	String string
	// Bytes is a raw byte string.
	Bytes []byte
)

func (U64) isConstant()      {}
func (I64) isConstant()      {}
func (F64) isConstant()      {}
func (Bool) isConstant()     {}
func (IdentRef) isConstant() {}
func (String) isConstant()   {}
func (Bytes) isConstant()    {}

func (c U64) String() string      { return strconv.FormatUint(uint64(c), 10) }
func (c I64) String() string      { return strconv.FormatInt(int64(c), 10) }
func (c F64) String() string      { return FormatFloat(float64(c)) }
func (c Bool) String() string     { return strconv.FormatBool(bool(c)) }
func (c IdentRef) String() string { return Ident(c).String() }
func (c String) String() string   { return string(c) }
func (Bytes) String() string      { return "<bytes>" }

func (c U64) MarshalJSON() ([]byte, error)  { return marshalVariant("U64", uint64(c)) }
func (c I64) MarshalJSON() ([]byte, error)  { return marshalVariant("I64", int64(c)) }
func (c Bool) MarshalJSON() ([]byte, error) { return marshalVariant("Bool", bool(c)) }
func (c String) MarshalJSON() ([]byte, error) {
	return marshalVariant("String", string(c))
}
func (c Bytes) MarshalJSON() ([]byte, error) {
	return marshalVariant("Bytes", []byte(c))
}
func (c IdentRef) MarshalJSON() ([]byte, error) {
	return marshalVariant("Ident", Ident(c))
}

// MarshalJSON writes non-finite values as the strings nan, inf and -inf,
// which JSON numbers cannot express.
func (c F64) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return marshalVariant("F64", FormatFloat(f))
	}
	return marshalVariant("F64", f)
}

// UnmarshalConstant decodes a Constant written by one of the MarshalJSON
// methods in this package.
func UnmarshalConstant(data []byte) (Constant, error) {
	tag, value, err := unmarshalVariant(data)
	if err != nil {
		return nil, fmt.Errorf("constant: %w", err)
	}

	switch tag {
	case "U64":
		var v uint64
		err = json.Unmarshal(value, &v)
		return U64(v), err
	case "I64":
		var v int64
		err = json.Unmarshal(value, &v)
		return I64(v), err
	case "F64":
		var v float64
		if err := json.Unmarshal(value, &v); err == nil {
			return F64(v), nil
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("constant: F64: %w", err)
		}
		v, err = ParseFloat(s)
		return F64(v), err
	case "Bool":
		var v bool
		err = json.Unmarshal(value, &v)
		return Bool(v), err
	case "Ident":
		var v Ident
		err = json.Unmarshal(value, &v)
		return IdentRef(v), err
	case "String":
		var v string
		err = json.Unmarshal(value, &v)
		return String(v), err
	case "Bytes":
		var v []byte
		err = json.Unmarshal(value, &v)
		return Bytes(v), err
	default:
		return nil, fmt.Errorf("constant: unknown variant %q", tag)
	}
}

// marshalVariant writes {tag: value}.
func marshalVariant(tag string, value any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: value})
}

// unmarshalVariant reads an object with exactly one key.
func unmarshalVariant(data []byte) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("expected an object with one key, got %d", len(obj))
	}
	for tag, value := range obj {
		return tag, value, nil
	}
	panic("unreachable")
}
