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

package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// StrLit is a string literal as written in source, without its quotes.
type StrLit struct {
	Escaped string
}

// DecodeBytes resolves the escape sequences in the literal.
func (s StrLit) DecodeBytes() ([]byte, error) {
	var buf []byte
	in := s.Escaped
	for i := 0; i < len(in); {
		c := in[i]
		if c != '\\' {
			buf = append(buf, c)
			i++
			continue
		}
		i++
		if i == len(in) {
			return nil, newError(StrLitDecodeError, "escape sequence at end of literal")
		}
		c = in[i]
		i++
		switch c {
		case 'a':
			buf = append(buf, '\a')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'v':
			buf = append(buf, '\v')
		case '\\', '\'', '"', '?':
			buf = append(buf, c)
		case 'x', 'X':
			n := hexPrefix(in[i:], 2)
			if n == 0 {
				return nil, newError(StrLitDecodeError, "invalid hex escape: \\%c%s", c, truncate(in[i:], 2))
			}
			v, _ := strconv.ParseUint(in[i:i+n], 16, 8)
			buf = append(buf, byte(v))
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := 1
			for n < 3 && i-1+n < len(in) && in[i-1+n] >= '0' && in[i-1+n] <= '7' {
				n++
			}
			v, _ := strconv.ParseUint(in[i-1:i-1+n], 8, 16)
			if v > 0377 {
				return nil, newError(StrLitDecodeError, "octal escape is out of range, must be between 0 and 377: \\%s", in[i-1:i-1+n])
			}
			buf = append(buf, byte(v))
			i += n - 1
		case 'u', 'U':
			size := 4
			if c == 'U' {
				size = 8
			}
			if hexPrefix(in[i:], size) != size {
				return nil, newError(StrLitDecodeError, "invalid unicode escape: \\%c%s", c, truncate(in[i:], size))
			}
			v, _ := strconv.ParseUint(in[i:i+size], 16, 32)
			if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
				return nil, newError(StrLitDecodeError, "invalid unicode code point: \\%c%s", c, in[i:i+size])
			}
			buf = utf8.AppendRune(buf, rune(v))
			i += size
		default:
			return nil, newError(StrLitDecodeError, "invalid escape sequence: \\%c", c)
		}
	}
	return buf, nil
}

// DecodeUTF8 resolves escapes and requires the result to be valid UTF-8.
func (s StrLit) DecodeUTF8() (string, error) {
	b, err := s.DecodeBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", newError(NotUTF8, "string literal %q", s.Escaped)
	}
	return string(b), nil
}

func hexPrefix(s string, limit int) int {
	n := 0
	for n < limit && n < len(s) && strings.IndexByte("0123456789abcdefABCDEF", s[n]) >= 0 {
		n++
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
