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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/frodobuf/midl/parser"
	"github.com/frodobuf/midl/parser/fastscan"
	"github.com/frodobuf/midl/protoconv"
	"github.com/frodobuf/midl/schema"
)

func getJSONCmd(c *rootCommand) *cobra.Command {
	var output string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "json [inputs...]",
		Short: "Print the schema of every input as JSON",
		Long: `Print the schema of every input as JSON.

A single input prints its schema object. Several inputs print an array of
schemas, in the order the inputs were given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.compile(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("pretty") {
				pretty = c.config.Pretty
			}

			schemas := make([]*schema.Schema, len(res.RelativePaths))
			for i, path := range res.RelativePaths {
				schemas[i] = res.Files.Get(path).Schema
			}
			var v any = schemas
			if len(schemas) == 1 {
				v = schemas[0]
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(v, "", "  ")
			} else {
				data, err = json.Marshal(v)
			}
			if err != nil {
				return err
			}
			return c.writeOutput(output, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to `file` instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON")
	return cmd
}

func getDescriptorCmd(c *rootCommand) *cobra.Command {
	var output string
	var asJSON, withSourceInfo bool
	cmd := &cobra.Command{
		Use:   "descriptor [inputs...]",
		Short: "Write a protobuf FileDescriptorSet of the inputs and their imports",
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := c.compile(args)
			if err != nil {
				return err
			}
			files, err := res.Files.Sorted()
			if err != nil {
				return err
			}
			var opts []protoconv.DescriptorOption
			if withSourceInfo {
				opts = append(opts, protoconv.WithSourceInfo())
			}
			fds, err := protoconv.ToFileDescriptorSet(files, opts...)
			if err != nil {
				return err
			}

			var data []byte
			if asJSON {
				data, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(fds)
				data = append(data, '\n')
			} else {
				data, err = proto.Marshal(fds)
			}
			if err != nil {
				return err
			}
			return c.writeOutput(output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to `file` instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write JSON instead of the binary format")
	cmd.Flags().BoolVar(&withSourceInfo, "source-info", false, "include source code info")
	return cmd
}

func getHashCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [inputs...]",
		Short: "Print the schema hash of every service",
		Long: `Print the schema hash of every service declared in the inputs, one
service per line: the file, the service name and the hash, separated by tabs.`,
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := c.compile(args)
			if err != nil {
				return err
			}
			for _, path := range res.RelativePaths {
				for _, svc := range res.Files.Get(path).Schema.Services {
					if _, err := fmt.Fprintf(c.stdout, "%s\t%s\t%s\n", path, svc.Name, svc.SchemaID); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func getImportsCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "imports [inputs...]",
		Short: "List the imports of every input without resolving them",
		Long: `List the imports of every input, one per line: the file and the
imported path, separated by a tab. Only the inputs are read; imported files
need not exist.`,
		RunE: func(_ *cobra.Command, args []string) error {
			inputs, err := c.inputs(args)
			if err != nil {
				return err
			}
			style, err := c.parseCommentStyle()
			if err != nil {
				return err
			}
			for _, input := range inputs {
				if err := c.printImports(input, style); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (c *rootCommand) printImports(path string, style parser.CommentStyle) error {
	r, err := c.sources.open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := fastscan.ScanForImports(path, r, style)
	if err != nil {
		return err
	}
	c.logger.WithField("file", path).WithField("package", res.PackageName).Debug("scanned")
	for _, imp := range res.Imports {
		if _, err := fmt.Fprintf(c.stdout, "%s\t%s\n", path, imp); err != nil {
			return err
		}
	}
	return nil
}
