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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSource(t *testing.T, r SearchResult) string {
	t.Helper()
	require.NotNil(t, r.Source)
	data, err := io.ReadAll(r.Source)
	require.NoError(t, err)
	return string(data)
}

func TestSourceResolverImportPaths(t *testing.T) {
	t.Parallel()
	resolver := &SourceResolver{
		ImportPaths: []string{"first", "second"},
		Accessor: SourceAccessorFromMap(map[string]string{
			"first/a.midl":  "first a",
			"second/a.midl": "second a",
			"second/b.midl": "second b",
		}),
	}

	r, err := resolver.FindFileByPath("a.midl")
	require.NoError(t, err)
	assert.Equal(t, "first a", readSource(t, r))

	r, err = resolver.FindFileByPath("b.midl")
	require.NoError(t, err)
	assert.Equal(t, "second b", readSource(t, r))

	_, err = resolver.FindFileByPath("c.midl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSourceResolverStopsOnOtherErrors(t *testing.T) {
	t.Parallel()
	denied := errors.New("permission denied")
	resolver := &SourceResolver{
		ImportPaths: []string{"first", "second"},
		Accessor: func(path string) (io.ReadCloser, error) {
			if path == filepath.Join("first", "a.midl") {
				return nil, denied
			}
			return nil, os.ErrNotExist
		},
	}
	_, err := resolver.FindFileByPath("a.midl")
	assert.ErrorIs(t, err, denied)
}

func TestSourceResolverFileSystem(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.midl"), []byte("package a;"), 0o600))

	resolver := &SourceResolver{ImportPaths: []string{dir}}
	r, err := resolver.FindFileByPath("a.midl")
	require.NoError(t, err)
	assert.Equal(t, "package a;", readSource(t, r))
	require.NoError(t, r.Source.(io.Closer).Close())
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()
	first := &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"a.midl": "one"})}
	second := &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"a.midl": "two", "b.midl": "two"})}
	resolver := CompositeResolver{first, second}

	r, err := resolver.FindFileByPath("a.midl")
	require.NoError(t, err)
	assert.Equal(t, "one", readSource(t, r))

	r, err = resolver.FindFileByPath("b.midl")
	require.NoError(t, err)
	assert.Equal(t, "two", readSource(t, r))

	_, err = resolver.FindFileByPath("c.midl")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = CompositeResolver{}.FindFileByPath("c.midl")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSourceAccessorFromMap(t *testing.T) {
	t.Parallel()
	access := SourceAccessorFromMap(map[string]string{"b.midl": "b", "sub/c.midl": "c"})
	for _, name := range []string{"b.midl", "./b.midl", "sub/../b.midl"} {
		rc, err := access(name)
		require.NoError(t, err, name)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "b", string(data), name)
	}
	_, err := access("sub//c.midl")
	require.NoError(t, err)

	_, err = access("./missing.midl")
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "./missing.midl", pathErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRelativePath(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		includes []string
		path     string
		want     string
		err      bool
	}{
		{name: "dot", includes: []string{"."}, path: "a.midl", want: "a.midl"},
		{name: "dot nested", includes: []string{"."}, path: "./x/a.midl", want: "x/a.midl"},
		{name: "dir", includes: []string{"idl"}, path: "idl/x/a.midl", want: "x/a.midl"},
		{name: "first match wins", includes: []string{"idl", "idl/x"}, path: "idl/x/a.midl", want: "x/a.midl"},
		{name: "skips non matching", includes: []string{"other", "idl/"}, path: "idl/a.midl", want: "a.midl"},
		{name: "outside", includes: []string{"idl"}, path: "src/a.midl", err: true},
		{name: "dot escapes", includes: []string{"."}, path: "../a.midl", err: true},
		{name: "include itself", includes: []string{"idl"}, path: "idl", err: true},
		{name: "no includes", path: "a.midl", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := RelativePath(tc.includes, tc.path)
			if tc.err {
				assert.ErrorContains(t, err, "must reside in include path")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
