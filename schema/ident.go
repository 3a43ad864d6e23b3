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

package schema

import "strings"

// Ident is a possibly namespaced name.
type Ident struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

// NewIdent splits s at its last path delimiter. Everything before it is the
// namespace.
func NewIdent(s string) Ident {
	if i := strings.LastIndex(s, IdentPathDelimiter); i >= 0 {
		return Ident{Namespace: s[:i], Name: s[i+1:]}
	}
	return Ident{Name: s}
}

func (id Ident) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + IdentPathDelimiter + id.Name
}
