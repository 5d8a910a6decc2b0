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
	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// Static is a reference Index implementation that derives search
// signatures directly from an operation's declared range pattern: bound
// columns are those whose pattern entry is not the undef-value sentinel. A
// signature is total when its popcount equals the relation's arity.
//
// This mirrors the source's RamIndexAnalysis closely enough to drive the
// synthesiser end-to-end and to unit-test emission without a real
// optimiser; a caller with a real cost-based chooser is expected to supply
// its own Index implementation instead.
type Static struct {
	indexes map[*ram.Relation][]mint.SearchSignature
}

// NewStatic precomputes the search signatures required by every
// pattern-carrying operation reachable from prog's main statement and its
// subroutines.
func NewStatic(prog *ram.Program) *Static {
	s := &Static{indexes: make(map[*ram.Relation][]mint.SearchSignature)}

	s.scanStatement(prog.Main)
	for _, name := range prog.SubroutineOrder {
		s.scanStatement(prog.Subroutines[name])
	}

	return s
}

func (s *Static) scanStatement(stmt ram.Statement) {
	switch st := stmt.(type) {
	case *ram.Sequence:
		for _, c := range st.Children {
			s.scanStatement(c)
		}
	case *ram.Parallel:
		for _, c := range st.Children {
			s.scanStatement(c)
		}
	case *ram.Loop:
		s.scanStatement(st.Body)
	case *ram.LogTimer:
		s.scanStatement(st.Body)
	case *ram.LogRelationTimer:
		s.scanStatement(st.Body)
	case *ram.DebugInfo:
		s.scanStatement(st.Body)
	case *ram.Query:
		ram.WalkOperation(st.Root, func(op ram.Operation) {
			s.record(op)
		})
	}
}

func (s *Static) record(op ram.Operation) {
	pattern, rel := patternOf(op)
	if pattern == nil {
		return
	}

	sig := signatureFromPattern(pattern)
	s.indexes[rel] = append(s.indexes[rel], sig)
}

func patternOf(op ram.Operation) ([]ram.Expr, *ram.Relation) {
	switch o := op.(type) {
	case *ram.IndexScan:
		return o.Pattern, o.Relation
	case *ram.ParallelIndexScan:
		return o.Pattern, o.Relation
	case *ram.IndexChoice:
		return o.Pattern, o.Relation
	case *ram.ParallelIndexChoice:
		return o.Pattern, o.Relation
	case *ram.IndexAggregate:
		return o.Pattern, o.Relation
	default:
		return nil, nil
	}
}

func signatureFromPattern(pattern []ram.Expr) mint.SearchSignature {
	sig := ram.NewIndexSignature(len(pattern))

	for i, e := range pattern {
		if !ram.IsUndef(e) {
			sig.Set(i)
		}
	}

	return sig
}

// SearchSignature implements Index.
func (s *Static) SearchSignature(op ram.Operation) mint.SearchSignature {
	pattern, rel := patternOf(op)
	if pattern == nil {
		if r, ok := op.(ram.RelationOp); ok {
			return ram.NewIndexSignature(r.Rel().Arity)
		}

		return ram.NewIndexSignature(0)
	}

	_ = rel

	return signatureFromPattern(pattern)
}

// IsTotalSignature implements Index.
func (s *Static) IsTotalSignature(op ram.Operation) bool {
	rel, ok := op.(ram.RelationOp)
	if !ok {
		return false
	}

	return s.SearchSignature(op).PopCount() == rel.Rel().Arity
}

// Indexes implements Index.
func (s *Static) Indexes(rel *ram.Relation) []mint.SearchSignature {
	seen := make([]mint.SearchSignature, 0, len(s.indexes[rel]))

	for _, sig := range s.indexes[rel] {
		dup := false

		for _, other := range seen {
			if sig.Equals(other) {
				dup = true
				break
			}
		}

		if !dup {
			seen = append(seen, sig)
		}
	}

	return seen
}
