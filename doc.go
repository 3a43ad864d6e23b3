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

// Package midl is the frontend of the MIDL interface definition language
// compiler. It turns MIDL source files into schemas: messages, enums and
// services together with their attributes, plus a per-service schema hash.
//
// The work happens in phases, each in its own package:
//
//  1. Lexing and parsing. See package parser.
//  2. Building the schema model and hashing every service.
//     See package schema.
//
// This package loads files and everything they import, parsing each file
// once. Files are parsed in parallel.
//
// # Resolvers
//
// A Resolver is how the compiler locates its inputs. It answers a path with
// either MIDL source or an already parsed file. The SourceResolver reads
// source from a list of include directories, trying them in order.
//
// # Compiler
//
// A Compiler accepts a list of file names and produces the parsed files.
// Only the Resolver field is required:
//
//	compiler := midl.Compiler{
//		Resolver: &midl.SourceResolver{ImportPaths: []string{"idl"}},
//	}
//	files, err := compiler.Compile(ctx, "greeter.midl")
//
// Files that import each other are an error wrapping ErrImportCycle.
//
// ParseAndTypecheck does the same starting from paths on disk, mapping each
// input to its path under the include directories first.
package midl
