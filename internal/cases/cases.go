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

// Package cases converts identifiers between case styles the way protoc does
// when it derives names: words are separated by underscores only.
package cases

import (
	"strings"
	"unicode"
)

// Case is a target case style to convert to.
type Case int

const (
	Snake  Case = iota // snake_case
	Enum               // ENUM_CASE
	Camel              // camelCase
	Pascal             // PascalCase
)

// Convert converts str to this case.
func (c Case) Convert(str string) string {
	return Converter{Case: c}.Convert(str)
}

// Converter is a configurable case conversion.
type Converter struct {
	Case Case

	// If set, runes will not be converted to lowercase as part of the
	// conversion. protoc derives map entry and JSON names this way.
	NoLowercase bool
}

// Convert converts str.
func (c Converter) Convert(str string) string {
	buf := new(strings.Builder)
	c.Append(buf, str)
	return buf.String()
}

// Append converts str and appends the result to buf.
func (c Converter) Append(buf *strings.Builder, str string) {
	words := strings.Split(str, "_")
	lowercase := !c.NoLowercase

	switch c.Case {
	case Snake, Enum:
		uppercase := c.Case == Enum
		first := true
		for _, word := range words {
			if word == "" {
				continue
			}
			if !first {
				buf.WriteRune('_')
			}
			for _, r := range word {
				if uppercase || lowercase {
					r = setCase(r, uppercase)
				}
				buf.WriteRune(r)
			}
			first = false
		}
	case Camel, Pascal:
		// A leading underscore makes the next word start a new word, so
		// "_foo" becomes "Foo" even in camel case.
		uppercase := c.Case == Pascal
		for i, word := range words {
			for j, r := range word {
				upper := (uppercase || i > 0) && j == 0
				if upper || lowercase {
					r = setCase(r, upper)
				}
				buf.WriteRune(r)
			}
		}
	}
}

func setCase(r rune, upper bool) rune {
	if upper {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}
