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
package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-db/synthesiser/pkg/config"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

func newRel(name string, arity int) *ram.Relation {
	return &ram.Relation{Name: name, Arity: arity}
}

// TestGenerate_SequentialScanProject covers a scan-then-project query with
// no parallelism: exactly one op-context is created for each referenced
// relation (A and B, so two in all) and no SECTIONS/PARALLEL framing
// appears.
func TestGenerate_SequentialScanProject(t *testing.T) {
	relA := newRel("A", 1)
	relB := newRel("B", 1)

	project := &ram.Project{Relation: relB, Values: []ram.Expr{&ram.TupleElement{TupleID: 0, Column: 0}}}

	scan := &ram.Scan{Relation: relA}
	scan.TupleID = 0
	scan.Nested = project

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.AddRelation(relB)
	prog.Main = &ram.Sequence{Children: []ram.Statement{&ram.Query{Root: scan}}}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)

	src := res.Source
	require.Equal(t, 2, strings.Count(src, "CREATE_OP_CONTEXT"))
	require.NotContains(t, src, "PARALLEL_START")
	require.NotContains(t, src, "SECTIONS_START")
	require.Contains(t, src, "for (const auto& env0 : *")
	require.False(t, res.WithSharedLibrary)
}

// TestGenerate_ParallelScanWithNestedIndexScan covers the parallel path:
// exactly one PARALLEL_START/PARALLEL_END region, wrapped in a try/catch,
// with op-context creation lines issued inside the parallel preamble
// rather than ahead of the "[&]()" closure.
func TestGenerate_ParallelScanWithNestedIndexScan(t *testing.T) {
	relA := newRel("A", 2)
	relB := newRel("B", 2)

	inner := &ram.IndexScan{
		Relation: relB,
		Pattern:  []ram.Expr{&ram.TupleElement{TupleID: 0, Column: 0}, &ram.UndefValue{}},
	}
	inner.TupleID = 1
	inner.Nested = &ram.Project{Relation: relB, Values: []ram.Expr{&ram.TupleElement{TupleID: 1, Column: 1}}}

	outer := &ram.ParallelScan{Relation: relA}
	outer.TupleID = 0
	outer.Nested = inner

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.AddRelation(relB)
	prog.Main = &ram.Query{Root: outer}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)

	src := res.Source
	require.Equal(t, 1, strings.Count(src, "PARALLEL_START"))
	require.Equal(t, 1, strings.Count(src, "PARALLEL_END"))
	require.Contains(t, src, "catch (std::exception& e) { SignalHandler::instance()->error(e.what()); }")
	require.Contains(t, src, "auto part = (")
	require.Contains(t, src, "->partition();")
	require.Contains(t, src, "equalRange<0>")
}

// TestGenerate_CountAggregateShortcut covers the size()-shortcut path: a
// COUNT over an always-true condition with no key pattern skips the
// accumulator loop entirely.
func TestGenerate_CountAggregateShortcut(t *testing.T) {
	relA := newRel("A", 1)
	relB := newRel("B", 1)

	agg := &ram.Aggregate{
		Relation:  relA,
		Function:  ram.AggCount,
		Target:    nil,
		Condition: &ram.True{},
	}
	agg.TupleID = 0
	agg.Nested = &ram.Project{Relation: relB, Values: []ram.Expr{&ram.TupleElement{TupleID: 0, Column: 0}}}

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.AddRelation(relB)
	prog.Main = &ram.Query{Root: agg}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)

	src := res.Source
	require.Contains(t, src, "->size();")
	require.NotContains(t, src, "MAX_RAM_DOMAIN")
	require.NotContains(t, src, "res0++;")
}

// TestGenerate_MinAggregateGuardsSentinel covers the sentinel-comparison
// guard a MIN/MAX aggregate wraps its nested operation in, so an empty
// range never emits a spurious result tuple downstream.
func TestGenerate_MinAggregateGuardsSentinel(t *testing.T) {
	relA := newRel("A", 1)
	relB := newRel("B", 1)

	agg := &ram.Aggregate{
		Relation:  relA,
		Function:  ram.AggMin,
		Target:    &ram.TupleElement{TupleID: 0, Column: 0},
		Condition: &ram.True{},
	}
	agg.TupleID = 0
	agg.Nested = &ram.Project{Relation: relB, Values: []ram.Expr{&ram.TupleElement{TupleID: 0, Column: 0}}}

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.AddRelation(relB)
	prog.Main = &ram.Query{Root: agg}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)

	src := res.Source
	require.Contains(t, src, "RamDomain res0 = MAX_RAM_DOMAIN;")
	require.Contains(t, src, "res0 = std::min(res0, static_cast<RamDomain>(")
	require.Contains(t, src, "if (res0 != MAX_RAM_DOMAIN) {")
}

// TestGenerate_FilterSplitsExistenceGuardFromFreeConjuncts covers the
// filter-splitting rule: a conjunction of an existence-check-bearing
// conjunct and an existence-check-free conjunct places the free conjunct
// as an "if" ahead of the closure and the guarded one inside it.
func TestGenerate_FilterSplitsExistenceGuardFromFreeConjuncts(t *testing.T) {
	relA := newRel("A", 1)
	relB := newRel("B", 1)

	free := &ram.Constraint{Op: ram.CEq, Left: &ram.SignedConstant{Value: 1}, Right: &ram.SignedConstant{Value: 1}}
	guarded := &ram.ExistenceCheck{Relation: relB, Pattern: []ram.Expr{&ram.UndefValue{}}}

	scan := &ram.Scan{Relation: relA}
	scan.TupleID = 0
	scan.Nested = &ram.Project{Relation: relB, Values: []ram.Expr{&ram.TupleElement{TupleID: 0, Column: 0}}}

	filter := &ram.Filter{Condition: &ram.Conjunction{Left: free, Right: guarded}}
	filter.Nested = scan

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.AddRelation(relB)
	prog.Main = &ram.Query{Root: filter}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)

	src := res.Source

	closureIdx := strings.Index(src, "[&]()")
	freeIdx := strings.Index(src, "(RAM_SIGNED(1) == RAM_SIGNED(1))")
	guardIdx := strings.Index(src, "equalRange")

	require.GreaterOrEqual(t, freeIdx, 0)
	require.GreaterOrEqual(t, closureIdx, 0)
	require.Less(t, freeIdx, closureIdx, "context-free conjunct must be hoisted outside the closure")
	require.Greater(t, guardIdx, closureIdx, "existence-check-bearing conjunct stays inside the closure")
}

// TestGenerate_UserDefinedOperatorSetsSharedLibraryFlag covers the
// Result.WithSharedLibrary contract: emitting even one user-defined
// operator call sets it.
func TestGenerate_UserDefinedOperatorSetsSharedLibraryFlag(t *testing.T) {
	relA := newRel("A", 1)

	udf := &ram.UserDefinedOperator{Name: "myFunc", Type: "II", Args: []ram.Expr{&ram.SignedConstant{Value: 1}}}
	project := &ram.Project{Relation: relA, Values: []ram.Expr{udf}}

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.Main = &ram.Query{Root: project}

	res, err := New(nil, nil, config.Config{}).Generate(prog)
	require.NoError(t, err)
	require.True(t, res.WithSharedLibrary)
	require.Contains(t, res.Source, "myFunc(")
}

// TestGenerate_UndefInValuePositionPanicsIntoError verifies that an
// undef-value reaching a value position (an internal invariant violation)
// surfaces as a returned error rather than an unrecovered panic.
func TestGenerate_UndefInValuePositionPanicsIntoError(t *testing.T) {
	relA := newRel("A", 1)

	project := &ram.Project{Relation: relA, Values: []ram.Expr{&ram.UndefValue{}}}

	prog := ram.NewProgram("t")
	prog.AddRelation(relA)
	prog.Main = &ram.Query{Root: project}

	_, err := New(nil, nil, config.Config{}).Generate(prog)
	require.Error(t, err)
}
