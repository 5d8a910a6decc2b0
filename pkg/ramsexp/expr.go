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

// expr reads one of:
//
//	_               an undef-value sentinel (legal only in range patterns)
//	123             a signed constant
//	(tup <id> <col>)  a tuple-element reference
//	(+ a b), (neg a), (cat a b), ...  an intrinsic operator application
func (b *builder) expr(term sexp.SExp) (ram.Expr, error) {
	switch v := term.(type) {
	case *sexp.Symbol:
		if v.Value == "_" {
			return &ram.UndefValue{}, nil
		}

		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return &ram.SignedConstant{Value: n}, nil
		}

		return nil, fmt.Errorf("ramsexp: unrecognised value symbol %q", v.Value)
	case *sexp.List:
		return b.exprList(v)
	default:
		return nil, fmt.Errorf("ramsexp: unrecognised value term %s", term.String())
	}
}

func (b *builder) exprList(list *sexp.List) (ram.Expr, error) {
	if list.Len() == 0 {
		return nil, fmt.Errorf("ramsexp: empty value list")
	}

	head, ok := list.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("ramsexp: expected a leading symbol in value list")
	}

	if head.Value == "tup" {
		if list.Len() != 3 {
			return nil, fmt.Errorf("ramsexp: (tup <id> <col>) takes 2 arguments")
		}

		idSym, ok1 := list.Elements[1].(*sexp.Symbol)
		colSym, ok2 := list.Elements[2].(*sexp.Symbol)

		if !ok1 || !ok2 {
			return nil, fmt.Errorf("ramsexp: tup arguments must be symbols")
		}

		id, err := atoi(idSym)
		if err != nil {
			return nil, err
		}

		col, err := atoi(colSym)
		if err != nil {
			return nil, err
		}

		return &ram.TupleElement{TupleID: id, Column: col}, nil
	}

	op, ok := intrinsics[head.Value]
	if !ok {
		return nil, fmt.Errorf("ramsexp: unrecognised operator %q", head.Value)
	}

	args, err := b.exprs(list.Elements[1:])
	if err != nil {
		return nil, err
	}

	return &ram.IntrinsicOperator{Op: op, Args: args}, nil
}

var intrinsics = map[string]ram.FunctorOp{
	"+":         ram.OpAdd,
	"-":         ram.OpSub,
	"*":         ram.OpMul,
	"/":         ram.OpDiv,
	"%":         ram.OpMod,
	"band":      ram.OpBand,
	"bor":       ram.OpBor,
	"bxor":      ram.OpBxor,
	"land":      ram.OpLand,
	"lor":       ram.OpLor,
	"neg":       ram.OpNegSigned,
	"cat":       ram.OpCat,
	"strlen":    ram.OpStrlen,
	"min":       ram.OpMin,
	"max":       ram.OpMax,
	"to-number": ram.OpToNumber,
	"to-string": ram.OpToString,
}

func (b *builder) exprs(terms []sexp.SExp) ([]ram.Expr, error) {
	out := make([]ram.Expr, 0, len(terms))

	for _, t := range terms {
		e, err := b.expr(t)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}
