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

package reporter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frodobuf/midl/ast"
)

func TestErrorWithPos(t *testing.T) {
	t.Parallel()

	underlying := errors.New("boom")
	err := Error(ast.SourcePos{Filename: "a.midl", Line: 2, Col: 7}, underlying)
	assert.Equal(t, "a.midl:2:7: boom", err.Error())
	assert.Equal(t, 2, err.GetPosition().Line)
	require.ErrorIs(t, err, underlying)

	err = Errorf(ast.UnknownPos("b.midl"), "bad %s", "thing")
	assert.Equal(t, "b.midl: bad thing", err.Error())
}

func TestPositionOf(t *testing.T) {
	t.Parallel()

	pos := ast.SourcePos{Filename: "a.midl", Line: 3, Col: 1}
	wrapped := fmt.Errorf("compiling: %w", Error(pos, errors.New("boom")))
	got, ok := PositionOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, pos, got)

	_, ok = PositionOf(errors.New("no position"))
	assert.False(t, ok)
	_, ok = PositionOf(nil)
	assert.False(t, ok)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	var warnings []string
	var reported int
	rep := NewReporter(
		func(ErrorWithPos) error {
			reported++
			return nil
		},
		func(err ErrorWithPos) {
			warnings = append(warnings, err.Error())
		},
	)
	h := NewHandler(rep)
	require.NoError(t, h.Error())

	h.HandleWarning(ast.SourcePos{Filename: "a.midl", Line: 1, Col: 1}, errors.New("careful"))
	assert.Equal(t, []string{"a.midl:1:1: careful"}, warnings)

	require.NoError(t, h.HandleErrorf(ast.UnknownPos("a.midl"), "first"))
	require.NoError(t, h.HandleErrorf(ast.UnknownPos("a.midl"), "second"))
	assert.Equal(t, 2, reported)
	require.ErrorIs(t, h.Error(), ErrInvalidSource)
}

func TestHandlerDefaultReporter(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	first := h.HandleErrorf(ast.UnknownPos("a.midl"), "first")
	require.Error(t, first)
	// Once the reporter returns an error, it sticks.
	second := h.HandleErrorf(ast.UnknownPos("a.midl"), "second")
	assert.Equal(t, first, second)
	assert.Equal(t, first, h.Error())
}

func TestRender(t *testing.T) {
	t.Parallel()

	source := []byte("package t;\nmessage Foo {\n\tdfgdg }\n")
	err := Errorf(ast.SourcePos{Filename: "test.midl", Line: 3, Col: 8}, "expecting identifier")

	var out strings.Builder
	require.NoError(t, Render(&out, err, source))
	want := "test.midl:3:8: expecting identifier\n" +
		"  |\n" +
		"3 | " + strings.Repeat(" ", 4) + "dfgdg }\n" +
		"  | " + strings.Repeat(" ", 10) + "^\n"
	assert.Equal(t, want, out.String())
}

func TestRenderWide(t *testing.T) {
	t.Parallel()

	source := []byte("@doc(\"日本\") x")
	err := Errorf(ast.SourcePos{Filename: "test.midl", Line: 1, Col: 12}, "oops")

	var out strings.Builder
	require.NoError(t, Render(&out, err, source))
	lines := strings.Split(out.String(), "\n")
	require.Len(t, lines, 5)
	// Each of the two ideographs occupies two cells.
	assert.Equal(t, "  | "+strings.Repeat(" ", 13)+"^", lines[3])
}

func TestRenderWithoutPosition(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	require.NoError(t, Render(&out, errors.New("plain"), []byte("x")))
	assert.Equal(t, "plain\n", out.String())
}
