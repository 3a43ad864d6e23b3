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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrLitDecode(t *testing.T) {
	t.Parallel()
	testCases := map[string]string{
		`plain`:             "plain",
		`\a\b\f\n\r\t\v`:    "\a\b\f\n\r\t\v",
		`\\\'\"\?`:          `\'"?`,
		`\x41\x4a\X7`:       "AJ\x07",
		`\101\0\12x`:        "A\x00\nx",
		`\u00e9\U0001F600`:  "\u00e9\U0001F600",
		`caf\303\251`:       "café",
		`\1234`:             "S4",
		`mixed \x20 and \"`: `mixed   and "`,
	}
	for escaped, expected := range testCases {
		actual, err := StrLit{Escaped: escaped}.DecodeUTF8()
		require.NoError(t, err, escaped)
		assert.Equal(t, expected, actual, escaped)
	}
}

func TestStrLitDecodeErrors(t *testing.T) {
	t.Parallel()
	testCases := map[string]ErrorKind{
		`\q`:         StrLitDecodeError,
		`\x`:         StrLitDecodeError,
		`\xzz`:       StrLitDecodeError,
		`\400`:       StrLitDecodeError,
		`\u12`:       StrLitDecodeError,
		`\ud800`:     StrLitDecodeError,
		`\U00110000`: StrLitDecodeError,
		`trailing\`:  StrLitDecodeError,
		`\xff`:       NotUTF8,
		`\300\300`:   NotUTF8,
	}
	for escaped, kind := range testCases {
		_, err := StrLit{Escaped: escaped}.DecodeUTF8()
		require.Error(t, err, escaped)
		assert.True(t, errors.Is(err, kind), "%s: %v", escaped, err)
	}
}

func TestStrLitDecodeBytes(t *testing.T) {
	t.Parallel()
	b, err := StrLit{Escaped: `\xff\x00\376`}.DecodeBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0x00, 0xfe}, b)
}
