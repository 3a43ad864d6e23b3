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

// Package parser contains the logic for parsing MIDL source code into the
// model defined by package schema.
//
// Parsing happens in three layers. A Lexer turns characters into tokens, a
// Tokenizer adds lookahead and the small vocabulary of conditional reads the
// grammar is written in, and the parser proper is a recursive descent over
// that vocabulary. There is no syntax tree in between: declarations are
// lowered into schema values as soon as they are recognized.
//
// The first error aborts the parse. It is returned as a
// [reporter.ErrorWithPos] whose underlying error is an [*Error].
package parser
