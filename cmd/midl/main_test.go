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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/frodobuf/midl/parser"
)

const (
	commonSrc  = "package common;\nmessage Name { string value = 1; }\n"
	greeterSrc = `package api;
import "common.midl";

service Greeter {
  rpc Hello(common.Name) -> common.Name;
}
`
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	}
}

func runMIDL(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"common.midl":  commonSrc,
		"greeter.midl": greeterSrc,
	})
	return dir
}

func TestJSON(t *testing.T) {
	t.Parallel()
	dir := newWorkspace(t)

	code, stdout, stderr := runMIDL(t, "json", "-I", dir, filepath.Join(dir, "greeter.midl"))
	require.Equal(t, 0, code, stderr)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "api", schema["namespace"].(map[string]any)["name"])
	assert.Len(t, schema["services"], 1)
	assert.NotContains(t, stdout, "\n  ")

	code, stdout, stderr = runMIDL(t, "json", "--pretty", "-I", dir,
		filepath.Join(dir, "greeter.midl"), filepath.Join(dir, "common.midl"))
	require.Equal(t, 0, code, stderr)
	var schemas []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schemas))
	require.Len(t, schemas, 2)
	assert.Equal(t, "api", schemas[0]["namespace"].(map[string]any)["name"])
	assert.Equal(t, "common", schemas[1]["namespace"].(map[string]any)["name"])
	assert.Contains(t, stdout, "\n  ")
}

func TestJSONOutputFile(t *testing.T) {
	t.Parallel()
	dir := newWorkspace(t)
	out := filepath.Join(dir, "out.json")

	code, stdout, stderr := runMIDL(t, "json", "-I", dir, "-o", out, filepath.Join(dir, "common.midl"))
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestDescriptor(t *testing.T) {
	t.Parallel()
	dir := newWorkspace(t)

	code, stdout, stderr := runMIDL(t, "descriptor", "-I", dir, filepath.Join(dir, "greeter.midl"))
	require.Equal(t, 0, code, stderr)
	var fds descriptorpb.FileDescriptorSet
	require.NoError(t, proto.Unmarshal([]byte(stdout), &fds))
	var names []string
	for _, f := range fds.GetFile() {
		names = append(names, f.GetName())
	}
	assert.Equal(t, []string{"common.midl", "greeter.midl"}, names)
	assert.Nil(t, fds.GetFile()[0].GetSourceCodeInfo())

	code, stdout, stderr = runMIDL(t, "descriptor", "--json", "-I", dir, filepath.Join(dir, "greeter.midl"))
	require.Equal(t, 0, code, stderr)
	var fromJSON descriptorpb.FileDescriptorSet
	require.NoError(t, protojson.Unmarshal([]byte(stdout), &fromJSON))
	assert.True(t, proto.Equal(&fds, &fromJSON))

	code, stdout, stderr = runMIDL(t, "descriptor", "--source-info", "-I", dir, filepath.Join(dir, "common.midl"))
	require.Equal(t, 0, code, stderr)
	var withInfo descriptorpb.FileDescriptorSet
	require.NoError(t, proto.Unmarshal([]byte(stdout), &withInfo))
	require.Len(t, withInfo.GetFile(), 1)
	locs := withInfo.GetFile()[0].GetSourceCodeInfo().GetLocation()
	require.NotEmpty(t, locs)
	assert.Equal(t, []int32{4, 0}, locs[0].GetPath())
	assert.Equal(t, int32(1), locs[0].GetSpan()[0])
}

func TestHash(t *testing.T) {
	t.Parallel()
	dir := newWorkspace(t)

	code, stdout, stderr := runMIDL(t, "hash", "-I", dir, filepath.Join(dir, "greeter.midl"))
	require.Equal(t, 0, code, stderr)

	fd, err := parser.ParseString(greeterSrc)
	require.NoError(t, err)
	svc := fd.Schema.Service("Greeter")
	require.NotNil(t, svc)
	assert.Equal(t, "greeter.midl\tGreeter\t"+svc.SchemaID+"\n", stdout)
}

func TestImports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.midl": "package a;\nimport \"x/missing.midl\";\nimport \"y.midl\";\n",
	})
	path := filepath.Join(dir, "a.midl")

	code, stdout, stderr := runMIDL(t, "imports", path)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, path+"\tx/missing.midl\n"+path+"\ty.midl\n", stdout)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"idl/common.midl":      commonSrc,
		"idl/api/greeter.midl": greeterSrc,
		"midl.yaml": `include: [idl]
inputs: ["idl/**/*.midl"]
pretty: true
`,
	})

	code, stdout, stderr := runMIDL(t, "--config", filepath.Join(dir, "midl.yaml"), "json")
	require.Equal(t, 0, code, stderr)
	var schemas []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schemas))
	require.Len(t, schemas, 2)
	assert.Equal(t, "api", schemas[0]["namespace"].(map[string]any)["name"])
	assert.Contains(t, stdout, "\n  ")

	// flags win over the file
	code, stdout, stderr = runMIDL(t, "--config", filepath.Join(dir, "midl.yaml"), "json", "--pretty=false",
		filepath.Join(dir, "idl", "common.midl"))
	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, stdout, "\n  ")
}

func TestCommentStyle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.midl": "# hash comment\npackage a;\n"})
	path := filepath.Join(dir, "a.midl")

	code, _, stderr := runMIDL(t, "hash", "-I", dir, "--comment-style", "hash", path)
	assert.Equal(t, 0, code, stderr)

	code, _, stderr = runMIDL(t, "hash", "-I", dir, "--comment-style", "perl", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown comment style "perl"`)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"bad.midl": "package bad;\nmessage M {\n  int32\n}\n"})

	code, stdout, stderr := runMIDL(t, "json", "-I", dir, filepath.Join(dir, "bad.midl"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "bad.midl:4:1: expecting identifier")
	assert.Contains(t, stderr, "4 | }")
	assert.Contains(t, stderr, "  | ^")

	code, _, stderr = runMIDL(t, "json", "--config", filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "bad.midl"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nope.yaml")

	code, _, stderr = runMIDL(t, "json", "-I", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no input files")

	code, _, stderr = runMIDL(t, "json", "-I", dir, filepath.Join(dir, "*.txt"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no files match")
}

func TestVerbose(t *testing.T) {
	t.Parallel()
	dir := newWorkspace(t)

	code, _, stderr := runMIDL(t, "hash", "-v", "-I", dir, filepath.Join(dir, "greeter.midl"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "level=debug")
	assert.Contains(t, stderr, `msg=parsing`)
}

func TestDuplicateImportWarning(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"common.midl": commonSrc,
		"a.midl":      "package a;\nimport \"common.midl\";\nimport \"common.midl\";\n",
	})

	code, _, stderr := runMIDL(t, "hash", "-I", dir, filepath.Join(dir, "a.midl"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "level=warning")
	assert.Contains(t, stderr, "imported more than once")
}
