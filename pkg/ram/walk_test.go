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
package ram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitConjuncts_Flat(t *testing.T) {
	c := &Constraint{Op: CEq}
	got := SplitConjuncts(c)

	require.Len(t, got, 1)
	require.Same(t, Condition(c), got[0])
}

func TestSplitConjuncts_Nested(t *testing.T) {
	a := &Constraint{Op: CEq}
	b := &Constraint{Op: CNe}
	c := &Constraint{Op: CSLt}

	tree := &Conjunction{Left: &Conjunction{Left: a, Right: b}, Right: c}

	got := SplitConjuncts(tree)

	require.Equal(t, []Condition{a, b, c}, got)
}

func TestMentionsExistenceCheck(t *testing.T) {
	rel := &Relation{Name: "A", Arity: 1}
	plain := &Constraint{Op: CEq}
	withExists := &Conjunction{
		Left:  plain,
		Right: &ExistenceCheck{Relation: rel},
	}

	require.False(t, MentionsExistenceCheck(plain))
	require.True(t, MentionsExistenceCheck(withExists))
	require.True(t, MentionsExistenceCheck(&Negation{Inner: withExists}))
}

func TestWalkOperation_CollectsNestedChain(t *testing.T) {
	relA := &Relation{Name: "A", Arity: 1}
	relB := &Relation{Name: "B", Arity: 1}

	project := &Project{Relation: relB, Values: nil}

	filter := &Filter{Condition: &True{}}
	filter.Nested = project

	scan := &Scan{Relation: relA}
	scan.TupleID = 0
	scan.Nested = filter

	var seen []Operation

	WalkOperation(scan, func(o Operation) {
		seen = append(seen, o)
	})

	require.Equal(t, []Operation{scan, filter, project}, seen)
}

func TestWalkOperation_NilRoot(t *testing.T) {
	calls := 0
	WalkOperation(nil, func(Operation) { calls++ })
	require.Zero(t, calls)
}

func TestRelation_TotalArity(t *testing.T) {
	rel := &Relation{Arity: 2, AuxiliaryArity: 3}
	require.Equal(t, 5, rel.TotalArity())
}
