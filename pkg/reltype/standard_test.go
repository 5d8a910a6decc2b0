// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package reltype

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func TestStandard_TypeName_IsPureFunctionOfShape(t *testing.T) {
	relA := &ram.Relation{Name: "A", Arity: 2}
	relB := &ram.Relation{Name: "B", Arity: 2}

	idx := []ram.IndexSignature{ram.SignatureFromColumns(0)}

	d1 := Standard{}.Relation(relA, idx, false)
	d2 := Standard{}.Relation(relB, idx, false)

	require.Equal(t, d1.TypeName(), d2.TypeName(), "two relations with the same shape share a type name")
}

func TestStandard_TypeName_VariesWithRepresentation(t *testing.T) {
	direct := &ram.Relation{Name: "A", Arity: 1, Representation: ram.Direct}
	btree := &ram.Relation{Name: "A", Arity: 1, Representation: ram.BTree}

	nameDirect := Standard{}.Relation(direct, nil, false).TypeName()
	nameBTree := Standard{}.Relation(btree, nil, false).TypeName()

	require.NotEqual(t, nameDirect, nameBTree)
	require.Contains(t, nameDirect, "direct")
	require.Contains(t, nameBTree, "btree")
}

func TestStandard_TypeName_ProvenanceSuffix(t *testing.T) {
	rel := &ram.Relation{Name: "A", Arity: 1}

	withProv := Standard{}.Relation(rel, nil, true).TypeName()
	withoutProv := Standard{}.Relation(rel, nil, false).TypeName()

	require.True(t, strings.HasSuffix(withProv, "_prov"))
	require.False(t, strings.HasSuffix(withoutProv, "_prov"))
}

func TestStandard_WriteTypeStruct_ContainsIndexTemplates(t *testing.T) {
	rel := &ram.Relation{Name: "A", Arity: 2}
	idx := []ram.IndexSignature{ram.SignatureFromColumns(0, 1)}

	d := Standard{}.Relation(rel, idx, false)

	var b strings.Builder
	d.WriteTypeStruct(&b)

	out := b.String()
	require.Contains(t, out, "struct "+d.TypeName())
	require.Contains(t, out, "index_0x1")
}
