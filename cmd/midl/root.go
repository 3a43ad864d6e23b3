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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/frodobuf/midl"
	"github.com/frodobuf/midl/parser"
	"github.com/frodobuf/midl/reporter"
)

// This is to keep all fields needed for the main/root midl command
type rootCommand struct {
	ctx    context.Context
	logger *logrus.Logger
	stdout io.Writer
	cmd    *cobra.Command

	configPath   string
	includes     []string
	commentStyle string
	verbose      bool

	config  Config
	sources *sourceCache
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := newRootCommand(ctx, stdout, stderr)
	c.cmd.SetArgs(args)
	c.cmd.SetOut(stdout)
	c.cmd.SetErr(stderr)
	if err := c.cmd.ExecuteContext(ctx); err != nil {
		c.renderError(stderr, err)
		return 1
	}
	return 0
}

func newRootCommand(ctx context.Context, stdout, stderr io.Writer) *rootCommand {
	c := &rootCommand{
		ctx: ctx,
		logger: &logrus.Logger{
			Out:       stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
		stdout:  stdout,
		sources: &sourceCache{data: map[string][]byte{}},
	}
	c.cmd = &cobra.Command{
		Use:               "midl",
		Short:             "Parse MIDL interface definitions",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())
	c.cmd.AddCommand(
		getJSONCmd(c),
		getDescriptorCmd(c),
		getHashCmd(c),
		getImportsCmd(c),
	)
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVar(&c.configPath, "config", "", "config `file` (default \""+defaultConfigFileName+"\" when present)")
	flags.StringSliceVarP(&c.includes, "include", "I", nil, "include `directory`, searched in order for imports")
	flags.StringVar(&c.commentStyle, "comment-style", parser.CommentStyleC.String(), "comment syntax: c, hash or none")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	return flags
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.logger.SetLevel(logrus.DebugLevel)
	}

	path, explicit := c.configPath, true
	if path == "" {
		path, explicit = defaultConfigFileName, false
	}
	cfg, err := loadConfig(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return err
	default:
		c.config = *cfg
		c.logger.WithField("config", path).Debug("loaded config")
	}

	if !cmd.Flags().Changed("include") && len(c.config.Include) > 0 {
		c.includes = c.config.Include
	}
	if !cmd.Flags().Changed("comment-style") && c.config.CommentStyle != "" {
		c.commentStyle = c.config.CommentStyle
	}
	return nil
}

func (c *rootCommand) parseCommentStyle() (parser.CommentStyle, error) {
	style, ok := parser.ParseCommentStyle(c.commentStyle)
	if !ok {
		return 0, fmt.Errorf("unknown comment style %q", c.commentStyle)
	}
	return style, nil
}

// inputs returns args, or the configured inputs when there are none, with
// globs expanded.
func (c *rootCommand) inputs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = c.config.Inputs
	}
	if len(args) == 0 {
		return nil, errors.New("no input files")
	}
	return expandInputs(args)
}

// compile parses the inputs and everything they import.
func (c *rootCommand) compile(args []string) (*midl.Result, error) {
	inputs, err := c.inputs(args)
	if err != nil {
		return nil, err
	}
	style, err := c.parseCommentStyle()
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"inputs":   len(inputs),
		"includes": c.includes,
	}).Debug("compiling")
	return midl.ParseAndTypecheck(
		c.ctx, c.includes, inputs,
		midl.WithLogger(c.logger),
		midl.WithCommentStyle(style),
		midl.WithAccessor(c.sources.open),
		midl.WithReporter(reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
			c.logger.Warn(err.Error())
		})),
	)
}

// writeOutput writes data to the named file, or to stdout if path is empty.
func (c *rootCommand) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.stdout.Write(data)
		return err
	}
	c.logger.WithField("output", path).Debug("writing output")
	return os.WriteFile(path, data, 0o644)
}

func (c *rootCommand) renderError(w io.Writer, err error) {
	var src []byte
	if pos, ok := reporter.PositionOf(err); ok {
		src = c.sources.lookup(c.includes, pos.Filename)
	}
	_ = reporter.Render(w, err, src)
}

// sourceCache keeps the contents of every file read, for rendering errors.
type sourceCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *sourceCache) open(path string) (io.ReadCloser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.data[filepath.Clean(path)] = data
	s.mu.Unlock()
	return io.NopCloser(bytes.NewReader(data)), nil
}

// lookup finds the contents of a file by the name it was parsed under.
func (s *sourceCache) lookup(includes []string, name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = filepath.FromSlash(name)
	if data, ok := s.data[filepath.Clean(name)]; ok {
		return data
	}
	for _, inc := range includes {
		if data, ok := s.data[filepath.Join(inc, name)]; ok {
			return data
		}
	}
	return nil
}
