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
	"errors"
	"fmt"
	"io"
	"iter"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/btree"
	"golang.org/x/sync/semaphore"

	"github.com/frodobuf/midl/internal/toposort"
	"github.com/frodobuf/midl/parser"
	"github.com/frodobuf/midl/reporter"
)

// ErrImportCycle is returned, wrapped with the files along the cycle, when
// files import each other.
var ErrImportCycle = errors.New("import cycle")

// Compiler handles compilation tasks: it turns MIDL source files into parsed
// files, loading everything they import.
//
// Every file is parsed once, however many files import it. Files are parsed
// in parallel.
type Compiler struct {
	// Resolves paths into source code or already parsed files. This is how
	// the compiler loads the files to be compiled as well as all their
	// imports. This field is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when compiling. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the compilation after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter
	// CommentStyle selects the comment syntax of the source files.
	CommentStyle parser.CommentStyle
	// Logger receives debug messages about parsing and import resolution. If
	// nil, nothing is logged.
	Logger logrus.FieldLogger
}

// File is a compiled file.
type File struct {
	// Path is the path the file was resolved by, slash separated and clean.
	Path string
	*parser.FileDescriptor
	// Imports are the files named by the file's import statements, in the
	// same order.
	Imports []*File
}

// Files is the result of a compilation: the requested files plus every file
// they import, directly or not.
type Files struct {
	roots  []*File
	byPath btree.Map[string, *File]
}

// Roots returns the files that were requested, in the order given to
// Compile.
func (f *Files) Roots() []*File {
	return f.roots
}

// Len returns the number of files, imports included.
func (f *Files) Len() int {
	return f.byPath.Len()
}

// Get returns the file with the given path, or nil.
func (f *Files) Get(path string) *File {
	file, _ := f.byPath.Get(path)
	return file
}

// All yields every file ordered by path.
func (f *Files) All() iter.Seq[*File] {
	return func(yield func(*File) bool) {
		f.byPath.Scan(func(_ string, file *File) bool {
			return yield(file)
		})
	}
}

// Deps returns the files that the file at path imports, directly or not.
// Every file comes after the files it imports.
func (f *Files) Deps(path string) ([]*File, error) {
	file := f.Get(path)
	if file == nil {
		return nil, fmt.Errorf("%s: not among the compiled files", path)
	}
	return sortFiles(file.Imports)
}

// Sorted returns all files such that every file comes after the files it
// imports.
func (f *Files) Sorted() ([]*File, error) {
	return sortFiles(f.roots)
}

func sortFiles(roots []*File) ([]*File, error) {
	return toposort.Sort(
		roots,
		func(f *File) string { return f.Path },
		func(f *File) iter.Seq[*File] { return slices.Values(f.Imports) },
	)
}

// Compile compiles the given files. The compiler's resolver is used to
// locate them and everything they import.
func (c *Compiler) Compile(ctx context.Context, files ...string) (*Files, error) {
	if len(files) == 0 {
		return &Files{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	log := c.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	e := executor{
		c:       c,
		h:       reporter.NewHandler(c.Reporter),
		s:       semaphore.NewWeighted(int64(par)),
		log:     log,
		results: map[string]*result{},
		imports: map[string][]string{},
	}

	results := make([]*result, len(files))
	for i, f := range files {
		results[i] = e.compile(ctx, path.Clean(filepath.ToSlash(f)))
	}

	out := &Files{roots: make([]*File, len(files))}
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		out.roots[i] = r.res
	}

	// every file reachable from the roots has completed
	e.mu.Lock()
	defer e.mu.Unlock()
	for path, r := range e.results {
		out.byPath.Set(path, r.res)
	}
	return out, nil
}

type result struct {
	ready chan struct{}
	res   *File
	err   error
	// unresolved is set when the resolver could not find the file.
	unresolved bool
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(f *File) {
	r.res = f
	close(r.ready)
}

type executor struct {
	c   *Compiler
	h   *reporter.Handler
	s   *semaphore.Weighted
	log logrus.FieldLogger

	mu      sync.Mutex
	results map[string]*result
	// imports holds the imports of every file parsed so far.
	imports map[string][]string
}

func (e *executor) compile(ctx context.Context, file string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.results[file]
	if r != nil {
		return r
	}

	r = &result{
		ready: make(chan struct{}),
	}
	e.results[file] = r
	go func() {
		e.doCompile(ctx, file, r)
	}()
	return r
}

func (e *executor) doCompile(ctx context.Context, file string, r *result) {
	t := task{e: e}
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer t.release()

	sr, err := e.c.Resolver.FindFileByPath(file)
	if err != nil {
		r.unresolved = true
		r.fail(fmt.Errorf("failed to read %s: %w", file, err))
		return
	}

	defer func() {
		// if results included a result, don't leave it open if it can be closed
		if sr.Source == nil {
			return
		}
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	f, err := t.asFile(ctx, file, sr)
	if err != nil {
		r.fail(err)
		return
	}
	r.complete(f)
}

// addImports records the imports of file and reports an error if they close
// a cycle.
func (e *executor) addImports(file string, imports []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.imports[file] = imports

	_, err := toposort.Sort(
		[]string{file},
		func(path string) string { return path },
		func(path string) iter.Seq[string] { return slices.Values(e.imports[path]) },
	)
	var cycle *toposort.CycleError[string]
	if errors.As(err, &cycle) {
		return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(cycle.Path, " -> "))
	}
	return err
}

// A compilation task. The executor has a semaphore that limits the number
// of concurrent, running tasks.
type task struct {
	e *executor
	// If true, this task needs to acquire a semaphore permit before running.
	// If false, this task needs to release its semaphore permit on completion.
	released bool
}

func (t *task) release() {
	if !t.released {
		t.e.s.Release(1)
		t.released = true
	}
}

func (t *task) asFile(ctx context.Context, name string, r SearchResult) (*File, error) {
	fd, err := t.asParsed(name, r)
	if err != nil {
		return nil, err
	}
	file := &File{Path: name, FileDescriptor: fd}
	if len(fd.Imports) == 0 {
		return file, nil
	}

	paths := make([]string, len(fd.Imports))
	for i, imp := range fd.Imports {
		p := imp.CleanPath()
		if p == ".." || strings.HasPrefix(p, "../") {
			if err := t.e.h.HandleErrorf(imp.Pos, "import %q refers to a file outside the include path", imp.Path); err != nil {
				return nil, err
			}
			return nil, t.e.h.Error()
		}
		paths[i] = p
	}
	if err := t.e.addImports(name, paths); err != nil {
		return nil, err
	}

	results := make([]*result, len(paths))
	for i, dep := range paths {
		t.e.log.WithFields(logrus.Fields{"file": name, "import": dep}).Debug("resolving import")
		results[i] = t.e.compile(ctx, dep)
	}
	file.Imports = make([]*File, len(results))

	// release our semaphore so dependencies can be processed w/out risk of deadlock
	t.e.s.Release(1)
	t.released = true

	// now we wait for them all to be computed
	for i, res := range results {
		select {
		case <-res.ready:
			if res.unresolved {
				return nil, fmt.Errorf("%s: cannot resolve import %q: %w", name, paths[i], res.err)
			}
			if res.err != nil {
				return nil, res.err
			}
			file.Imports[i] = res.res
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// all deps resolved; reacquire semaphore so we can proceed
	if err := t.e.s.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	t.released = false
	return file, nil
}

func (t *task) asParsed(name string, r SearchResult) (*parser.FileDescriptor, error) {
	if r.Parsed != nil {
		if r.Parsed.Schema == nil {
			return nil, fmt.Errorf("search result for %q has no schema", name)
		}
		return r.Parsed, nil
	}
	if r.Source == nil {
		return nil, fmt.Errorf("search result for %q is empty", name)
	}

	t.e.log.WithField("file", name).Debug("parsing")
	fd, err := parser.ParseWithOptions(name, r.Source, t.e.h, parser.Options{CommentStyle: t.e.c.CommentStyle})
	if err != nil {
		if _, ok := reporter.PositionOf(err); ok || errors.Is(err, reporter.ErrInvalidSource) {
			return nil, err
		}
		return nil, fmt.Errorf("error in %s: %w", name, err)
	}
	return fd, nil
}
