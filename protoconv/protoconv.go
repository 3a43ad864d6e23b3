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

// Package protoconv translates parsed MIDL files into protobuf descriptors,
// so that existing protobuf tooling can consume MIDL schemas.
//
// Files become proto2 files. Fields that are not optional are required.
// Every map field gets a nested map entry message, the way protoc lowers
// map fields.
package protoconv

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/frodobuf/midl"
	"github.com/frodobuf/midl/internal/cases"
	"github.com/frodobuf/midl/parser"
	"github.com/frodobuf/midl/schema"
)

// ErrUnsupported is wrapped by errors about declarations that have no
// protobuf equivalent, such as nested arrays.
var ErrUnsupported = errors.New("not representable in protobuf")

const (
	timestampPath = "google/protobuf/timestamp.proto"
	timestampName = ".google.protobuf.Timestamp"
	emptyPath     = "google/protobuf/empty.proto"
	emptyName     = ".google.protobuf.Empty"
)

// DescriptorOption is an option to pass to [ToFileDescriptorProto] or
// [ToFileDescriptorSet].
type DescriptorOption func(*descGenerator)

// WithSourceInfo includes source code info: the position of every
// declaration that records one, with its documentation as the leading
// comment.
func WithSourceInfo() DescriptorOption {
	return func(dg *descGenerator) {
		dg.sourceInfo = true
	}
}

// ToFileDescriptorProto translates a single file. Type references are
// resolved against the file's own declarations only. References that do
// not resolve are left as written, without a type.
func ToFileDescriptorProto(path string, fd *parser.FileDescriptor, options ...DescriptorOption) (*descriptorpb.FileDescriptorProto, error) {
	dg := newDescGenerator(options)
	fdp := new(descriptorpb.FileDescriptorProto)
	if err := dg.file(path, fd, fdp); err != nil {
		return nil, err
	}
	return fdp, nil
}

// ToFileDescriptorSet translates files, which must be ordered so that every
// file follows its imports, such as the result of [midl.Files.Sorted].
// References are resolved against each file and the files before it.
//
// The well-known files for Timestamp and Empty are added in front when some
// file needs them.
func ToFileDescriptorSet(files []*midl.File, options ...DescriptorOption) (*descriptorpb.FileDescriptorSet, error) {
	dg := newDescGenerator(options)
	fds := new(descriptorpb.FileDescriptorSet)
	for _, f := range files {
		fdp := new(descriptorpb.FileDescriptorProto)
		if err := dg.file(f.Path, f.FileDescriptor, fdp); err != nil {
			return nil, err
		}
		fds.File = append(fds.File, fdp)
	}

	var wkts []*descriptorpb.FileDescriptorProto
	if dg.usedEmpty {
		wkts = append(wkts, protodesc.ToFileDescriptorProto(emptypb.File_google_protobuf_empty_proto))
	}
	if dg.usedTimestamp {
		wkts = append(wkts, protodesc.ToFileDescriptorProto(timestamppb.File_google_protobuf_timestamp_proto))
	}
	fds.File = append(wkts, fds.File...)
	return fds, nil
}

type descGenerator struct {
	// types maps the full name of every message and enum seen so far, with
	// a leading dot, to its kind.
	types      map[string]descriptorpb.FieldDescriptorProto_Type
	sourceInfo bool
	// set once any file refers to the well-known type
	usedEmpty     bool
	usedTimestamp bool

	// state of the file being generated
	pkg  string
	deps []string
}

func newDescGenerator(options []DescriptorOption) *descGenerator {
	dg := &descGenerator{types: map[string]descriptorpb.FieldDescriptorProto_Type{}}
	for _, opt := range options {
		if opt != nil {
			opt(dg)
		}
	}
	return dg
}

func (dg *descGenerator) file(path string, fd *parser.FileDescriptor, fdp *descriptorpb.FileDescriptorProto) error {
	s := fd.Schema
	dg.pkg = s.Namespace.String()
	dg.deps = nil

	fdp.Name = proto.String(path)
	if dg.pkg != "" {
		fdp.Package = proto.String(dg.pkg)
	}
	fdp.Syntax = proto.String("proto2")

	for _, imp := range fd.Imports {
		dg.addDep(imp.CleanPath())
		switch imp.Vis {
		case parser.ImportPublic:
			fdp.PublicDependency = append(fdp.PublicDependency, int32(len(dg.deps)-1))
		case parser.ImportWeak:
			fdp.WeakDependency = append(fdp.WeakDependency, int32(len(dg.deps)-1))
		}
	}

	scope := dg.qualify("")
	for i := range s.Messages {
		dg.declare(scope, &s.Messages[i])
	}
	for i := range s.Enums {
		dg.types[join(scope, s.Enums[i].Name)] = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	}

	for i := range s.Messages {
		mdp := new(descriptorpb.DescriptorProto)
		if err := dg.message(scope, &s.Messages[i], mdp); err != nil {
			return err
		}
		fdp.MessageType = append(fdp.MessageType, mdp)
	}
	for i := range s.Enums {
		edp := new(descriptorpb.EnumDescriptorProto)
		dg.enum(&s.Enums[i], edp)
		fdp.EnumType = append(fdp.EnumType, edp)
	}
	for i := range s.Services {
		sdp := new(descriptorpb.ServiceDescriptorProto)
		if err := dg.service(scope, &s.Services[i], sdp); err != nil {
			return err
		}
		fdp.Service = append(fdp.Service, sdp)
	}

	fileOptions(s.Attributes, fdp)
	fdp.Dependency = dg.deps
	if dg.sourceInfo {
		fdp.SourceCodeInfo = sourceInfo(s)
	}
	return nil
}

func (dg *descGenerator) addDep(path string) {
	for _, dep := range dg.deps {
		if dep == path {
			return
		}
	}
	dg.deps = append(dg.deps, path)
}

// qualify returns the full name, with a leading dot, of name declared at the
// top level of the current package.
func (dg *descGenerator) qualify(name string) string {
	if dg.pkg == "" {
		if name == "" {
			return ""
		}
		return "." + name
	}
	if name == "" {
		return "." + dg.pkg
	}
	return "." + dg.pkg + "." + name
}

func join(scope, name string) string {
	return scope + "." + name
}

// declare records msg and everything nested in it.
func (dg *descGenerator) declare(scope string, msg *schema.Message) {
	name := join(scope, msg.Name.Name)
	dg.types[name] = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	for i := range msg.Messages {
		dg.declare(name, &msg.Messages[i])
	}
	for i := range msg.Enums {
		dg.types[join(name, msg.Enums[i].Name)] = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	}
}

// resolve looks ref up from scope outwards, the way protoc resolves relative
// names.
func (dg *descGenerator) resolve(scope string, ref schema.Ident) (string, descriptorpb.FieldDescriptorProto_Type, bool) {
	name := ref.String()
	for {
		candidate := join(scope, name)
		if typ, ok := dg.types[candidate]; ok {
			return candidate, typ, true
		}
		if scope == "" {
			return name, 0, false
		}
		scope = scope[:strings.LastIndexByte(scope, '.')]
	}
}

func (dg *descGenerator) message(scope string, msg *schema.Message, mdp *descriptorpb.DescriptorProto) error {
	name := join(scope, msg.Name.Name)
	mdp.Name = proto.String(msg.Name.Name)

	for i := range msg.Messages {
		nested := new(descriptorpb.DescriptorProto)
		if err := dg.message(name, &msg.Messages[i], nested); err != nil {
			return err
		}
		mdp.NestedType = append(mdp.NestedType, nested)
	}
	for i := range msg.Enums {
		edp := new(descriptorpb.EnumDescriptorProto)
		dg.enum(&msg.Enums[i], edp)
		mdp.EnumType = append(mdp.EnumType, edp)
	}

	for i := range msg.Fields {
		field := &msg.Fields[i]
		fd := new(descriptorpb.FieldDescriptorProto)
		if err := dg.field(name, field, fd, mdp); err != nil {
			return fmt.Errorf("%s.%s: %w", strings.TrimPrefix(name, "."), field.Name, err)
		}
		mdp.Field = append(mdp.Field, fd)
	}

	if deprecated(msg) {
		mdp.Options = &descriptorpb.MessageOptions{Deprecated: proto.Bool(true)}
	}
	return nil
}

func (dg *descGenerator) field(scope string, field *schema.Field, fd *descriptorpb.FieldDescriptorProto, parent *descriptorpb.DescriptorProto) error {
	fd.Name = proto.String(field.Name)
	fd.JsonName = proto.String(jsonName(field.Name))
	fd.Number = proto.Int32(int32(field.Number))

	switch typ := field.Type.(type) {
	case schema.Array:
		fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		if err := dg.elemType(scope, typ.Elem, fd); err != nil {
			return err
		}

	case schema.Map:
		entry, err := dg.mapEntry(scope, field.Name, typ)
		if err != nil {
			return err
		}
		parent.NestedType = append(parent.NestedType, entry)
		fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		fd.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
		fd.TypeName = proto.String(join(scope, entry.GetName()))

	default:
		if field.Optional {
			fd.Label = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
		} else {
			fd.Label = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED.Enum()
		}
		if err := dg.elemType(scope, typ, fd); err != nil {
			return err
		}
		if def, ok := field.DefaultValue(); ok {
			value, err := defaultValue(def)
			if err != nil {
				return err
			}
			fd.DefaultValue = proto.String(value)
		}
	}

	if deprecated(field) {
		fd.Options = &descriptorpb.FieldOptions{Deprecated: proto.Bool(true)}
	}
	return nil
}

// elemType sets the type of fd to a type that is neither an array nor a map.
func (dg *descGenerator) elemType(scope string, typ schema.FieldType, fd *descriptorpb.FieldDescriptorProto) error {
	switch typ := typ.(type) {
	case schema.Scalar:
		if typ == schema.TypeDatetime {
			dg.usedTimestamp = true
			dg.addDep(timestampPath)
			fd.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
			fd.TypeName = proto.String(timestampName)
			return nil
		}
		fd.Type = scalarType(typ).Enum()
		return nil
	case schema.ObjectOrEnum:
		name, kind, ok := dg.resolve(scope, typ.Name)
		fd.TypeName = proto.String(name)
		if ok {
			fd.Type = kind.Enum()
		}
		return nil
	default:
		return fmt.Errorf("%w: %v inside an array or map", ErrUnsupported, typ)
	}
}

func (dg *descGenerator) mapEntry(scope, fieldName string, typ schema.Map) (*descriptorpb.DescriptorProto, error) {
	key := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String("key"),
		JsonName: proto.String("key"),
		Number:   proto.Int32(1),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
	if err := dg.elemType(scope, typ.Key, key); err != nil {
		return nil, err
	}
	value := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String("value"),
		JsonName: proto.String("value"),
		Number:   proto.Int32(2),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
	}
	if err := dg.elemType(scope, typ.Value, value); err != nil {
		return nil, err
	}
	return &descriptorpb.DescriptorProto{
		Name:    proto.String(mapEntryName(fieldName)),
		Field:   []*descriptorpb.FieldDescriptorProto{key, value},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}, nil
}

// mapEntryName returns the name protoc gives the entry message of a map
// field: the field name in Pascal case followed by "Entry".
func mapEntryName(field string) string {
	return cases.Converter{Case: cases.Pascal, NoLowercase: true}.Convert(field) + "Entry"
}

// jsonName returns the JSON name protoc derives from a field name.
func jsonName(field string) string {
	return cases.Converter{Case: cases.Camel, NoLowercase: true}.Convert(field)
}

func scalarType(s schema.Scalar) descriptorpb.FieldDescriptorProto_Type {
	switch s {
	case schema.TypeInt8, schema.TypeInt32:
		return descriptorpb.FieldDescriptorProto_TYPE_INT32
	case schema.TypeInt64:
		return descriptorpb.FieldDescriptorProto_TYPE_INT64
	case schema.TypeUint8, schema.TypeUint32:
		return descriptorpb.FieldDescriptorProto_TYPE_UINT32
	case schema.TypeUint64:
		return descriptorpb.FieldDescriptorProto_TYPE_UINT64
	case schema.TypeBool:
		return descriptorpb.FieldDescriptorProto_TYPE_BOOL
	case schema.TypeString:
		return descriptorpb.FieldDescriptorProto_TYPE_STRING
	case schema.TypeBytes:
		return descriptorpb.FieldDescriptorProto_TYPE_BYTES
	case schema.TypeFloat32:
		return descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	case schema.TypeFloat64:
		return descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	default:
		panic(fmt.Sprintf("unknown scalar %v", s))
	}
}

// defaultValue renders a @default value in the text form of
// FieldDescriptorProto.default_value.
func defaultValue(c schema.Constant) (string, error) {
	switch c := c.(type) {
	case schema.Bytes:
		return "", fmt.Errorf("%w: bytes default value", ErrUnsupported)
	case schema.IdentRef:
		return schema.Ident(c).Name, nil
	default:
		return c.String(), nil
	}
}

func (dg *descGenerator) enum(enum *schema.Enumeration, edp *descriptorpb.EnumDescriptorProto) {
	edp.Name = proto.String(enum.Name)
	for i := range enum.Values {
		v := &enum.Values[i]
		vdp := &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v.Name),
			Number: proto.Int32(v.Number),
		}
		if deprecated(v) {
			vdp.Options = &descriptorpb.EnumValueOptions{Deprecated: proto.Bool(true)}
		}
		edp.Value = append(edp.Value, vdp)
	}
	if deprecated(enum) {
		edp.Options = &descriptorpb.EnumOptions{Deprecated: proto.Bool(true)}
	}
}

func (dg *descGenerator) service(scope string, svc *schema.Service, sdp *descriptorpb.ServiceDescriptorProto) error {
	sdp.Name = proto.String(svc.Name.Name)
	for i := range svc.Methods {
		m := &svc.Methods[i]
		mdp := &descriptorpb.MethodDescriptorProto{Name: proto.String(m.Name)}
		in, err := dg.methodType(scope, m.InputType)
		if err != nil {
			return fmt.Errorf("%s.%s: input: %w", svc.Name.Name, m.Name, err)
		}
		out, err := dg.methodType(scope, m.OutputType)
		if err != nil {
			return fmt.Errorf("%s.%s: output: %w", svc.Name.Name, m.Name, err)
		}
		mdp.InputType = proto.String(in)
		mdp.OutputType = proto.String(out)
		if deprecated(m) {
			mdp.Options = &descriptorpb.MethodOptions{Deprecated: proto.Bool(true)}
		}
		sdp.Method = append(sdp.Method, mdp)
	}
	if deprecated(svc) {
		sdp.Options = &descriptorpb.ServiceOptions{Deprecated: proto.Bool(true)}
	}
	return nil
}

// methodType returns the name of an rpc argument or result type, which
// protobuf requires to be a message.
func (dg *descGenerator) methodType(scope string, typ schema.FieldType) (string, error) {
	switch typ := typ.(type) {
	case nil:
		dg.usedEmpty = true
		dg.addDep(emptyPath)
		return emptyName, nil
	case schema.ObjectOrEnum:
		name, kind, ok := dg.resolve(scope, typ.Name)
		if ok && kind != descriptorpb.FieldDescriptorProto_TYPE_MESSAGE {
			return "", fmt.Errorf("%w: enum %s as rpc type", ErrUnsupported, typ.Name)
		}
		return name, nil
	default:
		return "", fmt.Errorf("%w: %v as rpc type", ErrUnsupported, typ)
	}
}

func deprecated(decl schema.HasAttributes) bool {
	return decl.Attribute("deprecated") != nil
}

// fileOptions copies the option statements that have a FileOptions field.
func fileOptions(attrs schema.Attributes, fdp *descriptorpb.FileDescriptorProto) {
	for _, attr := range attrs {
		if attr.Key.String() != schema.AttributeOption || len(attr.Values) == 0 {
			continue
		}
		opt := attr.Values[0]
		value, ok := opt.Value.(schema.String)
		if !ok {
			continue
		}
		if fdp.Options == nil {
			fdp.Options = new(descriptorpb.FileOptions)
		}
		switch opt.Name {
		case "go_package":
			fdp.Options.GoPackage = proto.String(string(value))
		case "java_package":
			fdp.Options.JavaPackage = proto.String(string(value))
		case "java_outer_classname":
			fdp.Options.JavaOuterClassname = proto.String(string(value))
		case "csharp_namespace":
			fdp.Options.CsharpNamespace = proto.String(string(value))
		case "objc_class_prefix":
			fdp.Options.ObjcClassPrefix = proto.String(string(value))
		}
	}
	if fdp.Options != nil && proto.Size(fdp.Options) == 0 {
		fdp.Options = nil
	}
}
