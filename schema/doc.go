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

// Package schema defines the model produced by parsing a MIDL file: a
// namespace plus its messages, enums, services and attributes.
//
// The model is a plain value tree. It is built once by the parser and is not
// modified afterwards, except for the Schema and SchemaID fields of each
// Service, which are filled in by [Schema.AssignServiceIDs].
//
// Every type marshals to and from JSON, which is the form handed to code
// generators. Tagged unions ([Constant], [FieldType]) are encoded as an
// object with a single key naming the variant, e.g. {"U64": 5}.
package schema

const (
	// IdentPathDelimiter separates the components of a namespaced name.
	IdentPathDelimiter = "."
	// AttributeSource is the key of the attribute recording where a
	// declaration begins. Its values are named line and col.
	AttributeSource = "_source"
	// AttributeDoc is the key of documentation attributes.
	AttributeDoc = "doc"
	// AttributeOption is the key under which option statements are stored.
	AttributeOption = "option"
	// AttributeUnnamed is the name given to an attribute value written
	// without one, as in @doc("text").
	AttributeUnnamed = "_"
)
