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

package midl

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/frodobuf/midl/parser"
	"github.com/frodobuf/midl/reporter"
)

// Result is the outcome of ParseAndTypecheck.
type Result struct {
	// RelativePaths are the inputs relative to their include directories,
	// in the order the inputs were given.
	RelativePaths []string
	// Files holds the inputs and everything they import.
	Files *Files
}

// Option configures ParseAndTypecheck.
type Option func(*Compiler, *SourceResolver)

// WithLogger sets the logger of the underlying Compiler.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Compiler, _ *SourceResolver) {
		c.Logger = log
	}
}

// WithCommentStyle sets the comment style of every parsed file.
func WithCommentStyle(style parser.CommentStyle) Option {
	return func(c *Compiler, _ *SourceResolver) {
		c.CommentStyle = style
	}
}

// WithReporter sets the reporter of the underlying Compiler.
func WithReporter(rep reporter.Reporter) Option {
	return func(c *Compiler, _ *SourceResolver) {
		c.Reporter = rep
	}
}

// WithAccessor replaces os.Open for reading files.
func WithAccessor(accessor func(path string) (io.ReadCloser, error)) Option {
	return func(_ *Compiler, r *SourceResolver) {
		r.Accessor = accessor
	}
}

// ParseAndTypecheck parses inputs and all the files they import. Every input
// must reside under one of includes, and imports are looked up in includes in
// order. A nil or empty includes means the current directory.
func ParseAndTypecheck(ctx context.Context, includes []string, inputs []string, opts ...Option) (*Result, error) {
	if len(includes) == 0 {
		includes = []string{"."}
	}

	rel := make([]string, len(inputs))
	for i, input := range inputs {
		path, err := RelativePath(includes, input)
		if err != nil {
			return nil, err
		}
		rel[i] = path
	}

	resolver := &SourceResolver{ImportPaths: includes}
	c := &Compiler{Resolver: resolver}
	for _, opt := range opts {
		opt(c, resolver)
	}

	files, err := c.Compile(ctx, rel...)
	if err != nil {
		return nil, err
	}
	return &Result{RelativePaths: rel, Files: files}, nil
}
