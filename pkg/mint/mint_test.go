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
package mint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func TestHostID_S1Example(t *testing.T) {
	m := New()

	require.Equal(t, "1_A", m.HostID("A"))
	require.Equal(t, "2_A_prime", m.HostID("A-prime"))
	// repeated lookups return the same id
	require.Equal(t, "1_A", m.HostID("A"))
}

func TestHostID_Bijection(t *testing.T) {
	m := New()

	names := []string{"foo", "bar", "foo-bar", "3leading", "___"}
	ids := make(map[string]string)

	for _, n := range names {
		id := m.HostID(n)

		for other, existing := range ids {
			if other != n {
				require.NotEqual(t, existing, id, "distinct inputs must not collide")
			}
		}

		ids[n] = id
	}
}

func TestRelationHostID_And_OpContextID(t *testing.T) {
	m := New()
	rel := &ram.Relation{Name: "edge"}

	relID := m.RelationHostID(rel)
	require.Equal(t, "rel_1_edge", relID)
	require.Equal(t, relID+"_op_ctxt", m.OpContextID(rel))
}

func TestMarkTypeEmitted_OnlyOnce(t *testing.T) {
	m := New()

	require.True(t, m.MarkTypeEmitted("Tfoo"))
	require.False(t, m.MarkTypeEmitted("Tfoo"))
	require.True(t, m.MarkTypeEmitted("Tbar"))
}

func TestFreqAndReadIndex_MonotoneAllocation(t *testing.T) {
	m := New()

	require.Equal(t, 0, m.FreqIndex("a"))
	require.Equal(t, 1, m.FreqIndex("b"))
	require.Equal(t, 0, m.FreqIndex("a"))
	require.Equal(t, 2, m.FreqCount())

	require.Equal(t, 0, m.ReadIndex("rel.one"))
	require.Equal(t, 1, m.ReadIndex("rel.two"))
	require.Equal(t, 2, m.ReadCount())
}

func TestIndexTemplate(t *testing.T) {
	empty := ram.NewIndexSignature(3)
	require.Equal(t, "<>", IndexTemplate(empty))

	sig := ram.SignatureFromColumns(2, 0)
	require.Equal(t, "<0,2>", IndexTemplate(sig))
}

func TestReferencedRelations_SortedAndDeduped(t *testing.T) {
	relB := &ram.Relation{Name: "B", Arity: 1}
	relA := &ram.Relation{Name: "A", Arity: 1}

	inner := &ram.Project{Relation: relB}

	scanOuter := &ram.Scan{Relation: relA}
	scanOuter.TupleID = 0
	scanOuter.Nested = &ram.Filter{
		Condition: &ram.ExistenceCheck{Relation: relA},
	}
	scanOuter.Nested.(*ram.Filter).Nested = inner

	rels := ReferencedRelations(scanOuter)

	require.Len(t, rels, 2)
	require.Equal(t, "A", rels[0].Name)
	require.Equal(t, "B", rels[1].Name)
}
