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

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// AssignServiceIDs fills in Schema and SchemaID for every service of s.
//
// The base hash is the SHA-256 digest of s serialized without its services.
// A service's SchemaID is the SHA-256 digest of the service serialized on its
// own followed by the base hash, so it changes whenever any type in the file
// changes but not when a sibling service does. Schema is the serialized
// service itself. Both use unpadded standard base64.
func (s *Schema) AssignServiceIDs() error {
	base := *s
	base.Services = []Service{}
	data, err := json.Marshal(&base)
	if err != nil {
		return fmt.Errorf("serializing schema %s: %w", s.Namespace, err)
	}
	baseHash := sha256.Sum256(data)

	for i := range s.Services {
		svc := &s.Services[i]
		svc.Schema, svc.SchemaID = "", ""
		ser, err := json.Marshal(svc)
		if err != nil {
			return fmt.Errorf("serializing service %s: %w", svc.Name, err)
		}

		h := sha256.New()
		h.Write(ser)
		h.Write(baseHash[:])
		svc.SchemaID = base64.RawStdEncoding.EncodeToString(h.Sum(nil))
		svc.Schema = base64.RawStdEncoding.EncodeToString(ser)
	}
	return nil
}

// DecodeSchema returns the service definition carried in Schema.
func (s *Service) DecodeSchema() (*Service, error) {
	if s.Schema == "" {
		return nil, fmt.Errorf("service %s has no schema", s.Name)
	}
	data, err := base64.RawStdEncoding.DecodeString(s.Schema)
	if err != nil {
		return nil, fmt.Errorf("service %s: decoding schema: %w", s.Name, err)
	}
	decoded := new(Service)
	if err := json.Unmarshal(data, decoded); err != nil {
		return nil, fmt.Errorf("service %s: decoding schema: %w", s.Name, err)
	}
	return decoded, nil
}
