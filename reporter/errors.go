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

	"github.com/frodobuf/midl/ast"
)

// ErrInvalidSource is returned when a MIDL source had errors but the
// configured ErrorReporter let every one of them pass.
var ErrInvalidSource = errors.New("parse failed: invalid midl source")

// ErrorWithPos is an error at a location in a MIDL source file. Error()
// prefixes the message with the position; Unwrap() returns the error
// without it.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error attaches pos to err.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	return posError{pos: pos, err: err}
}

// Errorf is like [Error] with the error built by fmt.Errorf.
func Errorf(pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return posError{pos: pos, err: fmt.Errorf(format, args...)}
}

// PositionOf returns the position of the first ErrorWithPos in err's chain.
func PositionOf(err error) (ast.SourcePos, bool) {
	var ewp ErrorWithPos
	if !errors.As(err, &ewp) {
		return ast.SourcePos{}, false
	}
	return ewp.GetPosition(), true
}

type posError struct {
	pos ast.SourcePos
	err error
}

func (e posError) Error() string {
	return fmt.Sprintf("%v: %v", e.pos, e.err)
}

func (e posError) GetPosition() ast.SourcePos {
	return e.pos
}

func (e posError) Unwrap() error {
	return e.err
}
