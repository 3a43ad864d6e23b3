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

// Package fastscan finds the package and imports of a MIDL file without
// parsing it. It tolerates syntax errors: anything that does not look like a
// top-level import or package statement is skipped.
package fastscan

import (
	"io"
	"strings"

	"github.com/frodobuf/midl/parser"
)

var closeSymbol = map[string]string{
	"(": ")",
	"{": "}",
	"[": "]",
	"<": ">",
}

// ScanResult is what was found in a file.
type ScanResult struct {
	PackageName string
	Imports     []string
}

// ScanForImports scans the given reader, which should contain MIDL source,
// and returns the imports and package name declared in the file. An I/O or
// lexical error stops the scan; the result then holds what was found
// before it.
func ScanForImports(filename string, r io.Reader, style parser.CommentStyle) (ScanResult, error) {
	var res ScanResult
	data, err := io.ReadAll(r)
	if err != nil {
		return res, err
	}

	var currentImport []string     // if non-nil, reading an import statement
	var packageComponents []string // if non-nil, reading a package statement

	// closing symbols of the blocks currently open
	var contextStack []string
	declarationStart := true

	lexer := parser.NewLexer(filename, data, style)
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return res, err
		}
		if tok == nil {
			return res, nil
		}

		if currentImport != nil {
			switch {
			case tok.Kind == parser.TokenString:
				path, err := tok.StrLit().DecodeUTF8()
				if err != nil {
					return res, err
				}
				currentImport = append(currentImport, path)
			case tok.IsIdent("weak"), tok.IsIdent("public"):
				// visibility
			default:
				if len(currentImport) > 0 {
					res.Imports = append(res.Imports, strings.Join(currentImport, ""))
				}
				currentImport = nil
			}
		}

		if packageComponents != nil {
			switch {
			case tok.IsAnyIdent():
				packageComponents = append(packageComponents, tok.Text)
			case tok.IsSymbol('.'), tok.Kind == parser.TokenDoubleColon:
				packageComponents = append(packageComponents, ".")
			default:
				if len(packageComponents) > 0 {
					res.PackageName = strings.Join(packageComponents, "")
				}
				packageComponents = nil
			}
		}

		if tok.Kind == parser.TokenSymbol {
			if closer, ok := closeSymbol[tok.Text]; ok {
				contextStack = append(contextStack, closer)
			} else if len(contextStack) > 0 && contextStack[len(contextStack)-1] == tok.Text {
				contextStack = contextStack[:len(contextStack)-1]
			}
		}
		if tok.Kind == parser.TokenIdent && declarationStart && len(contextStack) == 0 &&
			currentImport == nil && packageComponents == nil {
			switch tok.Text {
			case "import":
				currentImport = []string{}
			case "package":
				packageComponents = []string{}
			}
		}

		declarationStart = tok.IsSymbol('}') || tok.IsSymbol(';')
	}
}
