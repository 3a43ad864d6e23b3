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

package protoconv

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/frodobuf/midl"
	"github.com/frodobuf/midl/parser"
)

const shop = `package shop;
option go_package = "example.com/shop";

message Item {
  string name = 1;
  optional uint8 qty = 2;
  [string] tags = 3;
  map<string, int64> prices = 4;
  Kind kind = 5;
  datetime added = 6;
  @default(value = 3)
  int32 rank = 7;

  enum Kind { BOOK = 1; TOY = 2; }
}

@deprecated
service Store {
  rpc Get(Item) -> Item;
  rpc Ping() -> ();
}
`

func field(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typ descriptorpb.FieldDescriptorProto_Type,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	fd := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    label.Enum(),
		Type:     typ.Enum(),
	}
	if typeName != "" {
		fd.TypeName = proto.String(typeName)
	}
	return fd
}

const (
	required = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
	optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
)

func TestToFileDescriptorProto(t *testing.T) {
	t.Parallel()
	fd, err := parser.ParseString(shop)
	require.NoError(t, err)
	got, err := ToFileDescriptorProto("shop.midl", fd)
	require.NoError(t, err)

	rank := field("rank", 7, required, descriptorpb.FieldDescriptorProto_TYPE_INT32, "")
	rank.DefaultValue = proto.String("3")
	want := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("shop.midl"),
		Package:    proto.String("shop"),
		Syntax:     proto.String("proto2"),
		Dependency: []string{"google/protobuf/timestamp.proto", "google/protobuf/empty.proto"},
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Item"),
			Field: []*descriptorpb.FieldDescriptorProto{
				field("name", 1, required, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("qty", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_UINT32, ""),
				field("tags", 3, repeated, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				field("prices", 4, repeated, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".shop.Item.PricesEntry"),
				field("kind", 5, required, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".shop.Item.Kind"),
				field("added", 6, required, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Timestamp"),
				rank,
			},
			NestedType: []*descriptorpb.DescriptorProto{{
				Name: proto.String("PricesEntry"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("key", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					field("value", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_INT64, ""),
				},
				Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
			}},
			EnumType: []*descriptorpb.EnumDescriptorProto{{
				Name: proto.String("Kind"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("BOOK"), Number: proto.Int32(1)},
					{Name: proto.String("TOY"), Number: proto.Int32(2)},
				},
			}},
		}},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Store"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{Name: proto.String("Get"), InputType: proto.String(".shop.Item"), OutputType: proto.String(".shop.Item")},
				{Name: proto.String("Ping"), InputType: proto.String(".google.protobuf.Empty"), OutputType: proto.String(".google.protobuf.Empty")},
			},
			Options: &descriptorpb.ServiceOptions{Deprecated: proto.Bool(true)},
		}},
		Options: &descriptorpb.FileOptions{GoPackage: proto.String("example.com/shop")},
	}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestToFileDescriptorProtoUnresolved(t *testing.T) {
	t.Parallel()
	fd, err := parser.ParseString(`package a; message M { other.Thing thing = 1; }`)
	require.NoError(t, err)
	got, err := ToFileDescriptorProto("a.midl", fd)
	require.NoError(t, err)

	f := got.GetMessageType()[0].GetField()[0]
	assert.Equal(t, "other.Thing", f.GetTypeName())
	assert.Nil(t, f.Type)
}

func TestToFileDescriptorSet(t *testing.T) {
	t.Parallel()
	compiler := midl.Compiler{
		Resolver: &midl.SourceResolver{
			Accessor: midl.SourceAccessorFromMap(map[string]string{
				"common.midl": `package common; message Name { string value = 1; }`,
				"shop.midl":   shop,
				"api.midl": `package api;
import "common.midl";
import public "shop.midl";
message Req { common.Name who = 1; shop.Item item = 2; }
service Greeter { rpc Hello(Req) -> common.Name; }`,
			}),
		},
	}
	files, err := compiler.Compile(context.Background(), "api.midl")
	require.NoError(t, err)
	sorted, err := files.Sorted()
	require.NoError(t, err)

	fds, err := ToFileDescriptorSet(sorted)
	require.NoError(t, err)
	var names []string
	for _, f := range fds.GetFile() {
		names = append(names, f.GetName())
	}
	assert.Equal(t, []string{
		"google/protobuf/empty.proto",
		"google/protobuf/timestamp.proto",
		"common.midl",
		"shop.midl",
		"api.midl",
	}, names)

	api := fds.GetFile()[4]
	assert.Equal(t, []int32{1}, api.GetPublicDependency())
	assert.Equal(t, ".common.Name", api.GetMessageType()[0].GetField()[0].GetTypeName())
	assert.Equal(t, ".shop.Item", api.GetMessageType()[0].GetField()[1].GetTypeName())

	reg, err := protodesc.NewFiles(fds)
	require.NoError(t, err)
	desc, err := reg.FindDescriptorByName("api.Greeter")
	require.NoError(t, err)
	method := desc.(protoreflect.ServiceDescriptor).Methods().ByName("Hello")
	require.NotNil(t, method)
	assert.Equal(t, protoreflect.FullName("common.Name"), method.Output().FullName())

	item, err := reg.FindDescriptorByName("shop.Item")
	require.NoError(t, err)
	prices := item.(protoreflect.MessageDescriptor).Fields().ByName("prices")
	assert.True(t, prices.IsMap())
}

func TestUnsupported(t *testing.T) {
	t.Parallel()
	testCases := map[string]string{
		"nested array":     `package a; message M { [[int32]] grid = 1; }`,
		"array of maps":    `package a; message M { [map<string, int32>] xs = 1; }`,
		"map of arrays":    `package a; message M { map<string, [int8]> index = 1; }`,
		"scalar rpc input": `package a; service S { rpc Do(int32) -> (); }`,
		"enum rpc output":  `package a; enum E { X = 1; } service S { rpc Do() -> E; }`,
		"bytes default":    "package a; message M { @default(value = \"\\xff\") bytes b = 1; }",
	}
	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			fd, err := parser.ParseString(src)
			require.NoError(t, err)
			_, err = ToFileDescriptorProto("a.midl", fd)
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestMapEntryName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "PricesEntry", mapEntryName("prices"))
	assert.Equal(t, "ItemCountEntry", mapEntryName("item_count"))
	assert.Equal(t, "ABEntry", mapEntryName("a_b"))
	assert.Equal(t, "itemCount", jsonName("item_count"))
	assert.Equal(t, "Leading", jsonName("_leading"))
}

func TestSourceInfo(t *testing.T) {
	t.Parallel()
	fd, err := parser.ParseString(`package a;

@doc("A thing.")
message Thing {
  int32 id = 1;
}
`)
	require.NoError(t, err)

	got, err := ToFileDescriptorProto("a.midl", fd)
	require.NoError(t, err)
	assert.Nil(t, got.SourceCodeInfo)

	got, err = ToFileDescriptorProto("a.midl", fd, WithSourceInfo())
	require.NoError(t, err)
	want := &descriptorpb.SourceCodeInfo{
		Location: []*descriptorpb.SourceCodeInfo_Location{
			{
				Path:            []int32{4, 0},
				Span:            []int32{3, 14, 14},
				LeadingComments: proto.String(" A thing.\n"),
			},
			{
				Path: []int32{4, 0, 2, 0},
				Span: []int32{4, 2, 2},
			},
		},
	}
	if diff := cmp.Diff(want, got.GetSourceCodeInfo(), protocmp.Transform()); diff != "" {
		t.Errorf("source info mismatch (-want +got):\n%s", diff)
	}
}
