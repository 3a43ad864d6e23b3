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

// Package ast holds the source bookkeeping shared by the MIDL lexer, parser
// and diagnostics: positions within a file and an index of where each line
// of a file begins.
//
// The parser does not build a syntax tree. Declarations are lowered straight
// into the model in the schema package, and positions are kept only where a
// diagnostic or a _source attribute needs them.
package ast
