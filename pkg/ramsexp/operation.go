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

// operation reads one of:
//
//	(scan <tuple-id> <relation> <nested-or-none>)
//	(indexscan <tuple-id> <relation> (<pattern...>) <nested-or-none>)
//	(filter <cond> <nested>)
//	(break <cond> <nested>)
//	(project <relation> <values...>)
//	none
func (b *builder) operation(term sexp.SExp) (ram.Operation, error) {
	if sym, ok := term.(*sexp.Symbol); ok && sym.Value == "none" {
		return nil, nil
	}

	list, ok := term.(*sexp.List)
	if !ok || list.Len() == 0 {
		return nil, fmt.Errorf("ramsexp: expected an operation list, got %s", term.String())
	}

	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: expected a leading symbol in operation")
	}

	switch head.Value {
	case "scan":
		return b.scan(list)
	case "indexscan":
		return b.indexScan(list)
	case "filter":
		return b.filter(list)
	case "break":
		return b.breakOp(list)
	case "project":
		return b.project(list)
	default:
		return nil, fmt.Errorf("ramsexp: unrecognised operation form %q", head.Value)
	}
}

func (b *builder) tupleID(term sexp.SExp) (int, error) {
	sym, ok := term.(*sexp.Symbol)
	if !ok {
		return 0, fmt.Errorf("ramsexp: expected a tuple id symbol")
	}

	return atoi(sym)
}

func (b *builder) scan(list *sexp.List) (ram.Operation, error) {
	if list.Len() != 4 {
		return nil, fmt.Errorf("ramsexp: (scan <id> <relation> <nested>) takes 3 arguments")
	}

	id, err := b.tupleID(list.Elements[1])
	if err != nil {
		return nil, err
	}

	rel, err := b.relationArg(list, 2)
	if err != nil {
		return nil, err
	}

	nested, err := b.operation(list.Elements[3])
	if err != nil {
		return nil, err
	}

	s := &ram.Scan{Relation: rel}
	s.TupleID = id
	s.Nested = nested

	return s, nil
}

func (b *builder) indexScan(list *sexp.List) (ram.Operation, error) {
	if list.Len() != 5 {
		return nil, fmt.Errorf("ramsexp: (indexscan <id> <relation> (<pattern>) <nested>) takes 4 arguments")
	}

	id, err := b.tupleID(list.Elements[1])
	if err != nil {
		return nil, err
	}

	rel, err := b.relationArg(list, 2)
	if err != nil {
		return nil, err
	}

	patternList, ok := list.Elements[3].(*sexp.List)
	if !ok {
		return nil, fmt.Errorf("ramsexp: indexscan pattern must be a list")
	}

	pattern, err := b.exprs(patternList.Elements)
	if err != nil {
		return nil, err
	}

	nested, err := b.operation(list.Elements[4])
	if err != nil {
		return nil, err
	}

	s := &ram.IndexScan{Relation: rel, Pattern: pattern}
	s.TupleID = id
	s.Nested = nested

	return s, nil
}

func (b *builder) filter(list *sexp.List) (ram.Operation, error) {
	if list.Len() != 3 {
		return nil, fmt.Errorf("ramsexp: (filter <cond> <nested>) takes 2 arguments")
	}

	cond, err := b.condition(list.Elements[1])
	if err != nil {
		return nil, err
	}

	nested, err := b.operation(list.Elements[2])
	if err != nil {
		return nil, err
	}

	f := &ram.Filter{Condition: cond}
	f.Nested = nested

	return f, nil
}

func (b *builder) breakOp(list *sexp.List) (ram.Operation, error) {
	if list.Len() != 3 {
		return nil, fmt.Errorf("ramsexp: (break <cond> <nested>) takes 2 arguments")
	}

	cond, err := b.condition(list.Elements[1])
	if err != nil {
		return nil, err
	}

	nested, err := b.operation(list.Elements[2])
	if err != nil {
		return nil, err
	}

	brk := &ram.Break{Condition: cond}
	brk.Nested = nested

	return brk, nil
}

func (b *builder) project(list *sexp.List) (ram.Operation, error) {
	if list.Len() < 2 {
		return nil, fmt.Errorf("ramsexp: (project <relation> <values...>) requires a relation")
	}

	rel, err := b.relationArg(list, 1)
	if err != nil {
		return nil, err
	}

	values, err := b.exprs(list.Elements[2:])
	if err != nil {
		return nil, err
	}

	return &ram.Project{Relation: rel, Values: values}, nil
}
