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
package ramsexp

import (
	"fmt"

	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/sexp"
)

// condition reads one of:
//
//	true, false
//	(and a b), (not a)
//	(= a b), (!= a b), (< a b), (<= a b), (> a b), (>= a b)
//	(empty <relation>)
//	(exists <relation> (<pattern...>))
func (b *builder) condition(term sexp.SExp) (ram.Condition, error) {
	if sym, ok := term.(*sexp.Symbol); ok {
		switch sym.Value {
		case "true":
			return &ram.True{}, nil
		case "false":
			return &ram.False{}, nil
		}

		return nil, fmt.Errorf("ramsexp: unrecognised condition symbol %q", sym.Value)
	}

	list, ok := term.(*sexp.List)
	if !ok || list.Len() == 0 {
		return nil, fmt.Errorf("ramsexp: expected a condition list, got %s", term.String())
	}

	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: expected a leading symbol in condition")
	}

	switch head.Value {
	case "and":
		left, err := b.condition(list.Elements[1])
		if err != nil {
			return nil, err
		}

		right, err := b.condition(list.Elements[2])
		if err != nil {
			return nil, err
		}

		return &ram.Conjunction{Left: left, Right: right}, nil
	case "not":
		inner, err := b.condition(list.Elements[1])
		if err != nil {
			return nil, err
		}

		return &ram.Negation{Inner: inner}, nil
	case "empty":
		rel, err := b.relationArg(list, 1)
		if err != nil {
			return nil, err
		}

		return &ram.EmptinessCheck{Relation: rel}, nil
	case "exists":
		rel, err := b.relationArg(list, 1)
		if err != nil {
			return nil, err
		}

		patternList, ok := list.Elements[2].(*sexp.List)
		if !ok {
			return nil, fmt.Errorf("ramsexp: exists pattern must be a list")
		}

		pattern, err := b.exprs(patternList.Elements)
		if err != nil {
			return nil, err
		}

		return &ram.ExistenceCheck{Relation: rel, Pattern: pattern}, nil
	default:
		op, ok := constraints[head.Value]
		if !ok {
			return nil, fmt.Errorf("ramsexp: unrecognised condition form %q", head.Value)
		}

		left, err := b.expr(list.Elements[1])
		if err != nil {
			return nil, err
		}

		right, err := b.expr(list.Elements[2])
		if err != nil {
			return nil, err
		}

		return &ram.Constraint{Op: op, Left: left, Right: right}, nil
	}
}

var constraints = map[string]ram.ConstraintOp{
	"=":  ram.CEq,
	"!=": ram.CNe,
	"<":  ram.CSLt,
	"<=": ram.CSLe,
	">":  ram.CSGt,
	">=": ram.CSGe,
}
