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
	"sort"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

// ReferencedRelations performs a depth-first walk of an operation subtree
// and returns every relation reachable via a relation-carrying operation
// (scan/index-scan/aggregate/existence/provenance-existence/project),
// sorted by name.
//
// The source iterated an unordered std::set<const RamRelation*> keyed by
// pointer identity, which is stable within one C++ compilation but not a
// property to give up in Go, where map iteration order is randomised: the
// sort below is an added determinism guarantee so identical input programs
// produce byte-identical output.
func ReferencedRelations(op ram.Operation) []*ram.Relation {
	seen := make(map[*ram.Relation]bool)

	ram.WalkOperation(op, func(o ram.Operation) {
		if rel, ok := o.(ram.RelationOp); ok {
			seen[rel.Rel()] = true
		}

		var cond ram.Condition

		switch v := o.(type) {
		case *ram.Aggregate:
			cond = v.Condition
		case *ram.IndexAggregate:
			cond = v.Condition
		case *ram.Filter:
			cond = v.Condition
		case *ram.Break:
			cond = v.Condition
		case *ram.Choice:
			cond = v.Condition
		case *ram.IndexChoice:
			cond = v.Condition
		case *ram.ParallelChoice:
			cond = v.Condition
		case *ram.ParallelIndexChoice:
			cond = v.Condition
		}

		ram.WalkCondition(cond, func(r *ram.Relation) {
			seen[r] = true
		})
	})

	rels := make([]*ram.Relation, 0, len(seen))
	for r := range seen {
		rels = append(rels, r)
	}

	sort.Slice(rels, func(i, j int) bool {
		return rels[i].Name < rels[j].Name
	})

	return rels
}
