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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frodobuf/midl/parser"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	}
}

func TestParseAndTypecheck(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	idl := filepath.Join(root, "idl")
	vendor := filepath.Join(root, "vendor")
	writeFiles(t, idl, map[string]string{
		"api/greeter.midl": `package api; import "common/types.midl"; service Greeter { rpc Hello(common::Name) -> common::Name; }`,
	})
	writeFiles(t, vendor, map[string]string{
		"common/types.midl": `package common; message Name { string value; }`,
	})

	res, err := ParseAndTypecheck(context.Background(), []string{idl, vendor}, []string{filepath.Join(idl, "api", "greeter.midl")})
	require.NoError(t, err)
	assert.Equal(t, []string{"api/greeter.midl"}, res.RelativePaths)
	assert.Equal(t, 2, res.Files.Len())

	deps, err := res.Files.Deps("api/greeter.midl")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "common/types.midl", deps[0].Path)
	assert.NotNil(t, deps[0].Schema.Message("Name"))

	svc := res.Files.Get("api/greeter.midl").Schema.Service("Greeter")
	require.NotNil(t, svc)
	assert.NotEmpty(t, svc.SchemaID)
}

func TestParseAndTypecheckImportSpellings(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.midl": `package a; import "b.midl"; import "./b.midl"; import "sub/../b.midl"; message A { b::B b; }`,
		"b.midl": `package b; message B { int32 x; }`,
	})

	res, err := ParseAndTypecheck(context.Background(), []string{dir}, []string{filepath.Join(dir, "a.midl")})
	require.NoError(t, err)
	var got []string
	for f := range res.Files.All() {
		got = append(got, f.Path)
	}
	assert.Equal(t, []string{"a.midl", "b.midl"}, got)

	res, err = ParseAndTypecheck(context.Background(), nil, []string{"a.midl"},
		WithAccessor(SourceAccessorFromMap(map[string]string{
			"a.midl": `package a; import "./b.midl";`,
			"b.midl": `package b;`,
		})))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files.Len())
	assert.NotNil(t, res.Files.Get("b.midl"))
}

func TestParseAndTypecheckErrors(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.midl":   `package a; import "gone.midl";`,
		"bad.midl": "package bad;\nmessage {",
	})
	ctx := context.Background()

	_, err := ParseAndTypecheck(ctx, []string{root}, []string{"elsewhere/a.midl"})
	assert.ErrorContains(t, err, "must reside in include path")

	_, err = ParseAndTypecheck(ctx, []string{root}, []string{filepath.Join(root, "missing.midl")})
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, "failed to read missing.midl")

	_, err = ParseAndTypecheck(ctx, []string{root}, []string{filepath.Join(root, "a.midl")})
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, `a.midl: cannot resolve import "gone.midl"`)

	_, err = ParseAndTypecheck(ctx, []string{root}, []string{filepath.Join(root, "bad.midl")})
	assert.ErrorContains(t, err, "bad.midl:2:")
}

func TestParseAndTypecheckOptions(t *testing.T) {
	t.Parallel()
	srcs := map[string]string{
		"a.midl": "# comment\npackage a;",
	}
	res, err := ParseAndTypecheck(
		context.Background(),
		nil,
		[]string{"a.midl"},
		WithAccessor(SourceAccessorFromMap(srcs)),
		WithCommentStyle(parser.CommentStyleHash),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.midl"}, res.RelativePaths)
	assert.Equal(t, "a", res.Files.Get("a.midl").Schema.Namespace.String())
}
