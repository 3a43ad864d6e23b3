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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashFixture() *Schema {
	return &Schema{
		Namespace: NewIdent("t"),
		Messages: []Message{{
			Name:   NewIdent("Req"),
			Fields: []Field{{Name: "id", Type: TypeUint64, Number: 1}},
		}},
		Services: []Service{
			{
				Name:    NewIdent("First"),
				Methods: []Method{{Name: "Get", InputType: ObjectOrEnum{Name: NewIdent("Req")}}},
			},
			{
				Name:    NewIdent("Second"),
				Methods: []Method{{Name: "Ping"}},
			},
		},
	}
}

func TestAssignServiceIDs(t *testing.T) {
	t.Parallel()

	s := hashFixture()
	require.NoError(t, s.AssignServiceIDs())

	// Recompute the first service's ID by hand.
	base := *hashFixture()
	base.Services = []Service{}
	baseJSON, err := json.Marshal(&base)
	require.NoError(t, err)
	baseHash := sha256.Sum256(baseJSON)
	ser, err := json.Marshal(&hashFixture().Services[0])
	require.NoError(t, err)
	digest := sha256.Sum256(append(ser, baseHash[:]...))

	first := s.Service("First")
	assert.Equal(t, base64.RawStdEncoding.EncodeToString(digest[:]), first.SchemaID)
	assert.Equal(t, base64.RawStdEncoding.EncodeToString(ser), first.Schema)
	assert.NotContains(t, first.SchemaID, "=")

	decoded, err := first.DecodeSchema()
	require.NoError(t, err)
	assert.Equal(t, "Get", decoded.Methods[0].Name)
	assert.Empty(t, decoded.SchemaID)
}

func TestAssignServiceIDsStable(t *testing.T) {
	t.Parallel()

	a, b := hashFixture(), hashFixture()
	require.NoError(t, a.AssignServiceIDs())
	require.NoError(t, b.AssignServiceIDs())
	assert.Equal(t, a.Services, b.Services)
	assert.True(t, a.Service("First").CompatibleWith(b.Service("First")))
	assert.False(t, a.Service("First").CompatibleWith(b.Service("Second")))

	// Running it again does not feed the old IDs into the new ones.
	require.NoError(t, a.AssignServiceIDs())
	assert.Equal(t, b.Services, a.Services)
}

func TestAssignServiceIDsSiblingChange(t *testing.T) {
	t.Parallel()

	a, b := hashFixture(), hashFixture()
	b.Services[1].Methods = append(b.Services[1].Methods, Method{Name: "Pong"})
	require.NoError(t, a.AssignServiceIDs())
	require.NoError(t, b.AssignServiceIDs())

	assert.Equal(t, a.Service("First").SchemaID, b.Service("First").SchemaID)
	assert.NotEqual(t, a.Service("Second").SchemaID, b.Service("Second").SchemaID)
}

func TestAssignServiceIDsTypeChange(t *testing.T) {
	t.Parallel()

	a, b := hashFixture(), hashFixture()
	b.Messages[0].Fields[0].Type = TypeString
	require.NoError(t, a.AssignServiceIDs())
	require.NoError(t, b.AssignServiceIDs())

	assert.NotEqual(t, a.Service("First").SchemaID, b.Service("First").SchemaID)
	assert.NotEqual(t, a.Service("Second").SchemaID, b.Service("Second").SchemaID)
	assert.Equal(t, a.Service("First").Schema, b.Service("First").Schema)
	assert.False(t, a.Service("First").CompatibleWith(b.Service("First")))
}

func TestDecodeSchemaMissing(t *testing.T) {
	t.Parallel()

	_, err := (&Service{Name: NewIdent("S")}).DecodeSchema()
	require.ErrorContains(t, err, "has no schema")
}
