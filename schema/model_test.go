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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Ident{Namespace: "a.b", Name: "C"}, NewIdent("a.b.C"))
	assert.Equal(t, Ident{Name: "C"}, NewIdent("C"))
	assert.Equal(t, "a.b.C", NewIdent("a.b.C").String())
	assert.Equal(t, "C", NewIdent("C").String())
}

func TestConstantString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42", U64(42).String())
	assert.Equal(t, "-42", I64(-42).String())
	assert.Equal(t, "10", F64(10).String())
	assert.Equal(t, "-inf", F64(math.Inf(-1)).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "pkg.MAX", IdentRef(NewIdent("pkg.MAX")).String())
	assert.Equal(t, "hello", String("hello").String())
	assert.Equal(t, "<bytes>", Bytes("secret").String())
}

func TestConstantJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value Constant
		want  string
	}{
		{U64(1), `{"U64":1}`},
		{I64(-1), `{"I64":-1}`},
		{F64(2.5), `{"F64":2.5}`},
		{F64(math.NaN()), `{"F64":"nan"}`},
		{Bool(false), `{"Bool":false}`},
		{IdentRef(NewIdent("a.B")), `{"Ident":{"namespace":"a","name":"B"}}`},
		{String("x\ny"), `{"String":"x\ny"}`},
		{Bytes{1, 2}, `{"Bytes":"AQI="}`},
	}
	for _, test := range tests {
		data, err := json.Marshal(test.value)
		require.NoError(t, err)
		assert.JSONEq(t, test.want, string(data))
	}

	c, err := UnmarshalConstant([]byte(`{"F64":"-inf"}`))
	require.NoError(t, err)
	assert.Equal(t, F64(math.Inf(-1)), c)

	_, err = UnmarshalConstant([]byte(`{"U64":1,"I64":2}`))
	require.Error(t, err)
	_, err = UnmarshalConstant([]byte(`{"Complex":1}`))
	require.ErrorContains(t, err, "unknown variant")
}

func TestFieldTypeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  FieldType
		want string
	}{
		{TypeDatetime, `"Datetime"`},
		{Array{Elem: TypeInt32}, `{"Array":"Int32"}`},
		{Map{Key: TypeString, Value: Array{Elem: TypeBool}}, `{"Map":["String",{"Array":"Bool"}]}`},
		{ObjectOrEnum{Name: NewIdent("Foo")}, `{"ObjectOrEnum":{"name":"Foo"}}`},
	}
	for _, test := range tests {
		data, err := json.Marshal(test.typ)
		require.NoError(t, err)
		assert.JSONEq(t, test.want, string(data))

		back, err := UnmarshalFieldType(data)
		require.NoError(t, err)
		assert.Equal(t, test.typ, back)
	}

	_, err := json.Marshal(Scalar(99))
	require.Error(t, err)
	_, err = UnmarshalFieldType([]byte(`"Int128"`))
	require.Error(t, err)
}

func TestFieldTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "map<String, [Int32]>", Map{Key: TypeString, Value: Array{Elem: TypeInt32}}.String())
	assert.Equal(t, "a.B", ObjectOrEnum{Name: NewIdent("a.B")}.String())
	assert.True(t, TypeUint8.IsInteger())
	assert.False(t, TypeFloat32.IsInteger())
	assert.False(t, TypeString.IsInteger())
	assert.False(t, Array{Elem: TypeInt32}.IsInteger())
}

func TestFieldJSON(t *testing.T) {
	t.Parallel()

	f := Field{
		Name:       "b",
		Type:       TypeString,
		Number:     1,
		Attributes: Attributes{SourceAttribute(1, 20)},
	}
	data, err := json.Marshal(&f)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "b",
		"optional": false,
		"typ": "String",
		"number": 1,
		"attributes": [{"key": {"name": "_source"}, "values": [["line", {"U64": 1}], ["col", {"U64": 20}]]}]
	}`, string(data))
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	attrs := Attributes{
		KeyOnly("deprecated"),
		SingleValue("doc", String("hello")),
		SingleKV("default", "value", I64(-3)),
		{Key: NewIdent("rust.derive"), Values: []AttributeValue{
			{Name: "Debug", Value: Bool(true)},
			{Name: "limit", Value: U64(4)},
		}},
	}

	assert.Nil(t, attrs.Get("missing"))
	assert.Empty(t, attrs.Get("deprecated").Values)

	doc := attrs.Get(AttributeDoc)
	require.NotNil(t, doc)
	v, ok := doc.Get(AttributeUnnamed)
	require.True(t, ok)
	assert.Equal(t, String("hello"), v)

	derive := attrs.Get("rust.derive")
	require.NotNil(t, derive)
	assert.Equal(t, "@rust.derive(Debug = true, limit = 4)", derive.String())
	_, ok = derive.Get("Clone")
	assert.False(t, ok)

	f := Field{Name: "x", Type: TypeInt64, Attributes: attrs}
	def, ok := f.DefaultValue()
	require.True(t, ok)
	assert.Equal(t, I64(-3), def)

	data, err := json.Marshal(Attributes(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s := &Schema{
		Namespace: NewIdent("example.v1"),
		Messages: []Message{{
			Name: NewIdent("Point"),
			Fields: []Field{
				{Name: "x", Type: TypeFloat64, Number: 1, Attributes: Attributes{SourceAttribute(3, 2)}},
				{Name: "tags", Optional: true, Type: Map{Key: TypeString, Value: TypeBytes}, Number: 2},
				{Name: "next", Type: ObjectOrEnum{Name: NewIdent("Point")}, Number: 3},
			},
			Enums: []Enumeration{{
				Name:   "Kind",
				Values: []EnumValue{{Name: "A", Number: -1}, {Name: "B", Number: 2}},
			}},
		}},
		Services: []Service{{
			Name: NewIdent("Plotter"),
			Methods: []Method{
				{Name: "Plot", InputType: ObjectOrEnum{Name: NewIdent("Point")}},
				{Name: "Count", OutputType: TypeUint64},
			},
		}},
		Attributes: Attributes{SingleValue("doc", F64(math.Inf(1)))},
	}
	require.NoError(t, s.AssignServiceIDs())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	var back Schema
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Empty(t, cmp.Diff(s, &back, cmpopts.EquateEmpty()))

	assert.Equal(t, "Point", back.Message("Point").Name.Name)
	assert.Equal(t, uint32(2), back.Message("Point").Field("tags").Number)
	assert.Nil(t, back.Message("Point").Field("nope"))
	assert.Equal(t, int32(-1), back.Messages[0].Enums[0].Value("A").Number)
	assert.Nil(t, back.Service("Plotter").Method("Plot").OutputType)
}
