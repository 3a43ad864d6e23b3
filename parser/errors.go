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
	"fmt"
)

//go:generate go run github.com/frodobuf/midl/internal/enum kinds.yaml

// ErrDuplicateImport is a sentinel error passed to a warning reporter when a
// file imports the same path more than once.
var ErrDuplicateImport = errors.New("file is imported more than once")

// Error is an error produced while lexing or parsing.
//
// An ErrorKind is itself an error that matches every Error of that kind, so
// callers can write errors.Is(err, parser.MissingPackage).
type Error struct {
	Kind ErrorKind
	// Detail qualifies the message, e.g. with the symbol that was expected.
	Detail string
	// Err is the cause, if there is one.
	Err error
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	err := &Error{Kind: kind}
	if format != "" {
		err.Detail = fmt.Sprintf(format, args...)
	}
	return err
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// Error implements error, so that a kind can be the target of errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var perr *Error
	if !errors.As(err, &perr) {
		return 0, false
	}
	return perr.Kind, true
}
