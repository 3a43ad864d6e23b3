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

// Package toposort orders the nodes of a dependency graph so that every node
// comes after its dependencies.
package toposort

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

const (
	unsorted byte = iota
	walking
	sorted
)

// CycleError is returned when the graph is not acyclic. Path lists the keys
// along the cycle; its first and last elements are the same.
type CycleError[Key comparable] struct {
	Path []Key
}

func (e *CycleError[Key]) Error() string {
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = fmt.Sprint(k)
	}
	return "cycle detected: " + strings.Join(parts, " -> ")
}

// Sort returns the nodes reachable from roots, each after the nodes it
// depends on. key identifies a node and edges lists its dependencies.
func Sort[Node any, Key comparable](
	roots []Node,
	key func(Node) Key,
	edges func(Node) iter.Seq[Node],
) ([]Node, error) {
	s := Sorter[Node, Key]{Key: key}
	return s.Sort(roots, edges)
}

// Sorter holds scratch space for [Sort] so that it can be reused across
// calls. It is not safe for concurrent use.
type Sorter[Node any, Key comparable] struct {
	// Key extracts a unique key from each node.
	Key func(Node) Key

	state map[Key]byte
	stack []Node
}

// Sort is like [Sort], but re-uses the memory held by s.
func (s *Sorter[Node, Key]) Sort(
	roots []Node,
	edges func(Node) iter.Seq[Node],
) ([]Node, error) {
	if s.state == nil {
		s.state = make(map[Key]byte)
	}
	defer func() {
		clear(s.state)
		clear(s.stack)
		s.stack = s.stack[:0]
	}()

	var out []Node
	for _, root := range roots {
		if err := s.push(root); err != nil {
			return nil, err
		}
		// Depth-first search without recursion. A node is seen twice on top
		// of the stack: the first time its dependencies are pushed, the
		// second time it is popped and emitted.
		for len(s.stack) > 0 {
			node := s.stack[len(s.stack)-1]
			k := s.Key(node)
			state := s.state[k]

			if state == unsorted {
				s.state[k] = walking
				// pushed in reverse, so that they are emitted in the order
				// edges yields them
				for _, dep := range slices.Backward(slices.Collect(edges(node))) {
					if err := s.push(dep); err != nil {
						return nil, err
					}
				}
				continue
			}

			s.stack = s.stack[:len(s.stack)-1]
			if state != sorted {
				out = append(out, node)
				s.state[k] = sorted
			}
		}
	}
	return out, nil
}

func (s *Sorter[Node, Key]) push(n Node) error {
	k := s.Key(n)
	switch s.state[k] {
	case unsorted:
		s.stack = append(s.stack, n)
	case walking:
		// The topmost copy of each node being walked is on the path from
		// the root to n.
		var path []Key
		seen := make(map[Key]bool)
		for i := len(s.stack) - 1; i >= 0; i-- {
			mk := s.Key(s.stack[i])
			if s.state[mk] != walking || seen[mk] {
				continue
			}
			seen[mk] = true
			path = append(path, mk)
			if mk == k {
				break
			}
		}
		slices.Reverse(path)
		return &CycleError[Key]{Path: append(path, k)}
	}
	return nil
}
