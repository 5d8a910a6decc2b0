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
package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func buildIndexScanProgram(pattern []ram.Expr, arity int) *ram.Program {
	rel := &ram.Relation{Name: "A", Arity: arity}

	scan := &ram.IndexScan{Relation: rel, Pattern: pattern}
	scan.TupleID = 0
	scan.Nested = &ram.Project{Relation: rel}

	prog := ram.NewProgram("t")
	prog.AddRelation(rel)
	prog.Main = &ram.Query{Root: scan}

	return prog
}

func TestStatic_SearchSignature_PartialPattern(t *testing.T) {
	pattern := []ram.Expr{&ram.SignedConstant{Value: 1}, &ram.UndefValue{}}
	prog := buildIndexScanProgram(pattern, 2)

	idx := NewStatic(prog)
	scan := prog.Main.(*ram.Query).Root

	sig := idx.SearchSignature(scan)
	require.Equal(t, []int{0}, sig.Columns())
	require.False(t, idx.IsTotalSignature(scan))
}

func TestStatic_IsTotalSignature_WhenFullyBound(t *testing.T) {
	pattern := []ram.Expr{&ram.SignedConstant{Value: 1}, &ram.SignedConstant{Value: 2}}
	prog := buildIndexScanProgram(pattern, 2)

	idx := NewStatic(prog)
	scan := prog.Main.(*ram.Query).Root

	require.True(t, idx.IsTotalSignature(scan))
}

func TestStatic_Indexes_DedupsEqualSignatures(t *testing.T) {
	rel := &ram.Relation{Name: "A", Arity: 2}

	scan1 := &ram.IndexScan{Relation: rel, Pattern: []ram.Expr{&ram.SignedConstant{Value: 1}, &ram.UndefValue{}}}
	scan1.TupleID = 0
	scan1.Nested = &ram.Project{Relation: rel}

	scan2 := &ram.IndexScan{Relation: rel, Pattern: []ram.Expr{&ram.SignedConstant{Value: 9}, &ram.UndefValue{}}}
	scan2.TupleID = 1
	scan2.Nested = &ram.Project{Relation: rel}

	seq := &ram.Sequence{Children: []ram.Statement{
		&ram.Query{Root: scan1},
		&ram.Query{Root: scan2},
	}}

	prog := ram.NewProgram("t")
	prog.AddRelation(rel)
	prog.Main = seq

	idx := NewStatic(prog)
	sigs := idx.Indexes(rel)

	require.Len(t, sigs, 1)
	require.Equal(t, []int{0}, sigs[0].Columns())
}

func TestStatic_SearchSignature_NonPatternOperation(t *testing.T) {
	rel := &ram.Relation{Name: "A", Arity: 3}
	scan := &ram.Scan{Relation: rel}
	scan.TupleID = 0

	prog := ram.NewProgram("t")
	prog.AddRelation(rel)
	prog.Main = &ram.Query{Root: scan}

	idx := NewStatic(prog)

	sig := idx.SearchSignature(scan)
	require.Equal(t, 0, sig.PopCount())
}
