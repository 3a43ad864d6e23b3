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
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

const defaultConfigFileName = "midl.yaml"

// Config is the contents of a midl.yaml file. Flags take precedence over
// it. Relative paths are relative to the directory holding the file.
type Config struct {
	Include      []string `yaml:"include"`
	Inputs       []string `yaml:"inputs"`
	Pretty       bool     `yaml:"pretty"`
	CommentStyle string   `yaml:"comment_style"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, paths := range [][]string{cfg.Include, cfg.Inputs} {
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				paths[i] = filepath.Join(dir, p)
			}
		}
	}
	return &cfg, nil
}

// expandInputs replaces every glob among inputs, such as "idl/**/*.midl",
// with the files it matches.
func expandInputs(inputs []string) ([]string, error) {
	var out []string
	for _, input := range inputs {
		if !strings.ContainsAny(input, "*?[{") {
			out = append(out, input)
			continue
		}
		matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", input)
		}
		slices.Sort(matches)
		out = append(out, matches...)
	}
	return out, nil
}
