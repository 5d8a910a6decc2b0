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

// Package ramsexp builds ram.Program values from a small textual fixture
// syntax, using pkg/sexp as its reader. It exists for tests and for the
// generate command, which reads its input program from a .sexp fixture
// file: a way to write a RAM program by hand without constructing pkg/ram
// values with Go struct literals.
//
// The surface syntax is deliberately small; it covers the operation and
// statement kinds a hand-written fixture is likely to need, not the full
// closed families in pkg/ram. Constructing anything richer (aggregates,
// provenance existence checks, parallel forms) is left to Go callers
// building ram.Program values directly.
package ramsexp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/sexp"
)

// Parse reads src as a single (program ...) fixture and builds the
// ram.Program it describes. Whitespace after the closing parenthesis is
// ignored.
func Parse(src string) (*ram.Program, error) {
	term, err := sexp.Parse(strings.TrimRight(src, " \t\r\n"))
	if err != nil {
		return nil, err
	}

	list, ok := term.(*sexp.List)
	if !ok || !list.MatchSymbols(1, "program") {
		return nil, fmt.Errorf("ramsexp: expected (program <name> ...)")
	}

	if len(list.Elements) < 2 {
		return nil, fmt.Errorf("ramsexp: (program ...) requires a name")
	}

	name, ok := list.Elements[1].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: program name must be a symbol")
	}

	b := &builder{prog: ram.NewProgram(name.Value)}

	for _, elt := range list.Elements[2:] {
		if err := b.topLevel(elt); err != nil {
			return nil, err
		}
	}

	return b.prog, nil
}

type builder struct {
	prog *ram.Program
}

func (b *builder) topLevel(term sexp.SExp) error {
	list, ok := term.(*sexp.List)
	if !ok || list.Len() == 0 {
		return fmt.Errorf("ramsexp: expected a list at top level, got %s", term.String())
	}

	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return fmt.Errorf("ramsexp: expected a leading symbol, got %s", list.Elements[0].String())
	}

	switch head.Value {
	case "relation":
		return b.relation(list)
	case "main":
		if list.Len() != 2 {
			return fmt.Errorf("ramsexp: (main <body>) takes exactly one statement")
		}

		stmt, err := b.statement(list.Elements[1])
		if err != nil {
			return err
		}

		b.prog.Main = stmt

		return nil
	case "subroutine":
		return b.subroutine(list)
	default:
		return fmt.Errorf("ramsexp: unrecognised top-level form %q", head.Value)
	}
}

// relation reads (relation <name> <arity> [input] [output] [temporary]).
func (b *builder) relation(list *sexp.List) error {
	if list.Len() < 3 {
		return fmt.Errorf("ramsexp: (relation <name> <arity> ...) requires at least a name and arity")
	}

	nameSym, ok := list.Elements[1].(*sexp.Symbol)
	if !ok {
		return fmt.Errorf("ramsexp: relation name must be a symbol")
	}

	aritySym, ok := list.Elements[2].(*sexp.Symbol)
	if !ok {
		return fmt.Errorf("ramsexp: relation arity must be a symbol")
	}

	arity, err := strconv.Atoi(aritySym.Value)
	if err != nil {
		return fmt.Errorf("ramsexp: bad relation arity %q: %w", aritySym.Value, err)
	}

	rel := &ram.Relation{Name: nameSym.Value, Arity: arity}

	for _, flag := range list.Elements[3:] {
		sym, ok := flag.(*sexp.Symbol)
		if !ok {
			continue
		}

		switch sym.Value {
		case "input":
			rel.Input = true
		case "output":
			rel.Output = true
		case "temporary":
			rel.Temporary = true
		}
	}

	b.prog.AddRelation(rel)

	return nil
}

func (b *builder) subroutine(list *sexp.List) error {
	if list.Len() < 3 {
		return fmt.Errorf("ramsexp: (subroutine <name> <body>) requires a name and body")
	}

	nameSym, ok := list.Elements[1].(*sexp.Symbol)
	if !ok {
		return fmt.Errorf("ramsexp: subroutine name must be a symbol")
	}

	stmt, err := b.statement(list.Elements[2])
	if err != nil {
		return err
	}

	b.prog.AddSubroutine(nameSym.Value, stmt)

	return nil
}

func (b *builder) relationByName(name string) (*ram.Relation, error) {
	rel, ok := b.prog.Relation(name)
	if !ok {
		return nil, fmt.Errorf("ramsexp: reference to undeclared relation %q", name)
	}

	return rel, nil
}
