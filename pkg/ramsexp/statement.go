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
	"strconv"

	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/sexp"
)

func (b *builder) statement(term sexp.SExp) (ram.Statement, error) {
	list, ok := term.(*sexp.List)
	if !ok || list.Len() == 0 {
		return nil, fmt.Errorf("ramsexp: expected a statement list, got %s", term.String())
	}

	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: expected a leading symbol in statement")
	}

	switch head.Value {
	case "seq":
		children, err := b.statements(list.Elements[1:])
		if err != nil {
			return nil, err
		}

		return &ram.Sequence{Children: children}, nil
	case "par":
		children, err := b.statements(list.Elements[1:])
		if err != nil {
			return nil, err
		}

		return &ram.Parallel{Children: children}, nil
	case "loop":
		body, err := b.statement(list.Elements[1])
		if err != nil {
			return nil, err
		}

		return &ram.Loop{Body: body}, nil
	case "exit":
		cond, err := b.condition(list.Elements[1])
		if err != nil {
			return nil, err
		}

		return &ram.Exit{Condition: cond}, nil
	case "swap":
		left, right, err := b.relationPair(list)
		if err != nil {
			return nil, err
		}

		return &ram.Swap{Left: left, Right: right}, nil
	case "extend":
		target, source, err := b.relationPair(list)
		if err != nil {
			return nil, err
		}

		return &ram.Extend{Target: target, Source: source}, nil
	case "clear":
		rel, err := b.relationArg(list, 1)
		if err != nil {
			return nil, err
		}

		return &ram.Clear{Relation: rel}, nil
	case "query":
		root, err := b.operation(list.Elements[1])
		if err != nil {
			return nil, err
		}

		return &ram.Query{Root: root}, nil
	default:
		return nil, fmt.Errorf("ramsexp: unrecognised statement form %q", head.Value)
	}
}

func (b *builder) statements(terms []sexp.SExp) ([]ram.Statement, error) {
	out := make([]ram.Statement, 0, len(terms))

	for _, t := range terms {
		stmt, err := b.statement(t)
		if err != nil {
			return nil, err
		}

		out = append(out, stmt)
	}

	return out, nil
}

func (b *builder) relationPair(list *sexp.List) (*ram.Relation, *ram.Relation, error) {
	if list.Len() != 3 {
		return nil, nil, fmt.Errorf("ramsexp: %q requires exactly two relation arguments", list.Elements[0].String())
	}

	left, err := b.relationArg(list, 1)
	if err != nil {
		return nil, nil, err
	}

	right, err := b.relationArg(list, 2)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

func (b *builder) relationArg(list *sexp.List, idx int) (*ram.Relation, error) {
	sym, ok := list.Elements[idx].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: expected a relation name symbol")
	}

	return b.relationByName(sym.Value)
}

// atoi parses a symbol as a decimal integer, used throughout for tuple ids
// and columns.
func atoi(s *sexp.Symbol) (int, error) {
	return strconv.Atoi(s.Value)
}
