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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/frodobuf/midl/parser"
)

// Resolver can be used to locate MIDL source files by the path used to
// import them.
type Resolver interface {
	// FindFileByPath locates the file with the given path. An error that
	// matches fs.ErrNotExist means the file is not there.
	FindFileByPath(path string) (SearchResult, error)
}

// SearchResult is a file found by a Resolver. Exactly one field should be
// set. If both are, Parsed is used.
type SearchResult struct {
	// Source is the file's MIDL source. If it implements io.Closer, the
	// compiler closes it once it has been read.
	Source io.Reader
	// Parsed is a file that has already been parsed. Its imports are still
	// resolved and compiled.
	Parsed *parser.FileDescriptor
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements the Resolver interface.
func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can supply a result. If none of the constituent resolvers can
// supply a result, the error returned by the first resolver is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements the Resolver interface.
func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver can resolve file names by returning source code. It uses
// an optional list of import paths to search. By default, it searches the
// file system.
type SourceResolver struct {
	// Optional list of import paths. If present and not empty, then all
	// file paths to find are assumed to be relative to one of these paths.
	// The directories are tried in order. If nil or empty, all file paths
	// to find are assumed to be relative to the current working directory.
	ImportPaths []string
	// Optional function for returning a file's contents. If nil, then
	// os.Open is used to open files on the file system.
	//
	// An error for which errors.Is(err, fs.ErrNotExist) holds makes the
	// resolver try the next import path.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements the Resolver interface.
func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(r.ImportPaths) == 0 {
		reader, err := r.accessFile(path)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}

	var e error
	for _, importPath := range r.ImportPaths {
		reader, err := r.accessFile(filepath.Join(importPath, path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e = err
				continue
			}
			return SearchResult{}, err
		}
		return SearchResult{Source: reader}, nil
	}
	return SearchResult{}, e
}

func (r *SourceResolver) accessFile(path string) (io.ReadCloser, error) {
	if r.Accessor != nil {
		return r.Accessor(path)
	}
	return os.Open(path)
}

// SourceAccessorFromMap returns a function that can be used as the Accessor
// field of a SourceResolver that uses the given map to load source. The map
// keys are clean, slash-separated file names and the values are the
// corresponding file contents.
//
// The given map is used directly and not copied. Since accessor functions
// must be thread-safe, this means that the map must not be mutated in a
// different goroutine while a compilation is in progress.
func SourceAccessorFromMap(srcs map[string]string) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		src, ok := srcs[path.Clean(filepath.ToSlash(name))]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}
}

// RelativePath returns path relative to the first of includes that contains
// it, with forward slashes. This is the path other files use to import it.
// The include directory "." accepts any relative path that stays inside the
// working directory.
func RelativePath(includes []string, path string) (string, error) {
	clean := filepath.Clean(path)
	for _, inc := range includes {
		inc = filepath.Clean(inc)
		if inc == "." {
			if !filepath.IsAbs(clean) && !escapes(clean) {
				return filepath.ToSlash(clean), nil
			}
			continue
		}
		rel, err := filepath.Rel(inc, clean)
		if err != nil || rel == "." || escapes(rel) {
			continue
		}
		return filepath.ToSlash(rel), nil
	}
	return "", fmt.Errorf("file %q must reside in include path %v", path, includes)
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
