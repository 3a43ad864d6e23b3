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
	"slices"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/frodobuf/midl/schema"
)

// Field numbers within descriptor.proto, used to build location paths.
const (
	fileMessagesTag = 4
	fileEnumsTag    = 5
	fileServicesTag = 6

	messageFieldsTag         = 2
	messageNestedMessagesTag = 3
	messageEnumsTag          = 4

	enumValuesTag     = 2
	serviceMethodsTag = 2
)

type sourceCodeInfo struct {
	locs []*descriptorpb.SourceCodeInfo_Location
}

// sourceInfo returns the locations of the declarations in s that record
// where they begin, or nil if none do.
func sourceInfo(s *schema.Schema) *descriptorpb.SourceCodeInfo {
	var sci sourceCodeInfo
	path := make([]int32, 0, 8)
	for i := range s.Messages {
		sci.message(&s.Messages[i], append(path, fileMessagesTag, int32(i)))
	}
	for i := range s.Enums {
		sci.enum(&s.Enums[i], append(path, fileEnumsTag, int32(i)))
	}
	for i := range s.Services {
		svc := &s.Services[i]
		svcPath := append(path, fileServicesTag, int32(i))
		sci.newLoc(svc, svcPath)
		for j := range svc.Methods {
			sci.newLoc(&svc.Methods[j], append(svcPath, serviceMethodsTag, int32(j)))
		}
	}
	if len(sci.locs) == 0 {
		return nil
	}
	return &descriptorpb.SourceCodeInfo{Location: sci.locs}
}

func (sci *sourceCodeInfo) message(msg *schema.Message, path []int32) {
	sci.newLoc(msg, path)
	for i := range msg.Fields {
		sci.newLoc(&msg.Fields[i], append(path, messageFieldsTag, int32(i)))
	}
	// map entries are appended after the declared nested messages, so
	// these indexes hold
	for i := range msg.Messages {
		sci.message(&msg.Messages[i], append(path, messageNestedMessagesTag, int32(i)))
	}
	for i := range msg.Enums {
		sci.enum(&msg.Enums[i], append(path, messageEnumsTag, int32(i)))
	}
}

func (sci *sourceCodeInfo) enum(enum *schema.Enumeration, path []int32) {
	sci.newLoc(enum, path)
	for i := range enum.Values {
		sci.newLoc(&enum.Values[i], append(path, enumValuesTag, int32(i)))
	}
}

// newLoc adds a location for decl if it records its position. The span is
// empty: only the start of a declaration is known.
func (sci *sourceCodeInfo) newLoc(decl schema.HasAttributes, path []int32) {
	src := decl.Attribute(schema.AttributeSource)
	if src == nil {
		return
	}
	line, ok := src.Get("line")
	if !ok {
		return
	}
	col, ok := src.Get("col")
	if !ok {
		return
	}
	l, lok := line.(schema.U64)
	c, cok := col.(schema.U64)
	if !lok || !cok || l == 0 || c == 0 {
		return
	}

	loc := &descriptorpb.SourceCodeInfo_Location{
		Path: slices.Clone(path),
		Span: []int32{int32(l) - 1, int32(c) - 1, int32(c) - 1},
	}
	if doc := decl.Attribute(schema.AttributeDoc); doc != nil {
		if text, ok := doc.Get(schema.AttributeUnnamed); ok {
			if text, ok := text.(schema.String); ok {
				loc.LeadingComments = proto.String(" " + string(text) + "\n")
			}
		}
	}
	sci.locs = append(sci.locs, loc)
}
