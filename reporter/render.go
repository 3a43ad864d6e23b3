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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/frodobuf/midl/ast"
)

// TabstopWidth is the size we render all tabstops as.
const TabstopWidth = 4

// Render writes a human-readable form of err to w. When err carries a
// position and source holds the file's contents, the offending line is
// printed beneath the message with a caret under the reported column:
//
//	foo.midl:3:8: expecting identifier
//	  |
//	3 |     dfgdg }
//	  |           ^
func Render(w io.Writer, err error, source []byte) error {
	var out strings.Builder
	fmt.Fprintln(&out, err)

	if pos, ok := PositionOf(err); ok && source != nil {
		info := ast.IndexLines(pos.Filename, source)
		if pos.Line > 0 && pos.Col > 0 && pos.Line <= info.LineCount() {
			text, column := expandLine(info.Line(pos.Line), pos.Col-1)
			gutter := strconv.Itoa(pos.Line)
			margin := strings.Repeat(" ", len(gutter))
			fmt.Fprintf(&out, "%s |\n", margin)
			fmt.Fprintf(&out, "%s | %s\n", gutter, text)
			fmt.Fprintf(&out, "%s | %s^\n", margin, strings.Repeat(" ", column))
		}
	}

	_, werr := io.WriteString(w, out.String())
	return werr
}

// expandLine replaces tabs in line with spaces and returns the display column
// at which the rune with index runeIndex starts.
func expandLine(line string, runeIndex int) (string, int) {
	var out strings.Builder
	column, target, runes := 0, -1, 0
	for gs := uniseg.NewGraphemes(line); gs.Next(); {
		if target < 0 && runes >= runeIndex {
			target = column
		}
		runes += len(gs.Runes())

		if gs.Str() == "\t" {
			tab := TabstopWidth - column%TabstopWidth
			out.WriteString(strings.Repeat(" ", tab))
			column += tab
			continue
		}
		out.WriteString(gs.Str())
		column += gs.Width()
	}
	if target < 0 {
		target = column
	}
	return out.String(), target
}
