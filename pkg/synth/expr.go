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

// Component C2: the expression emitter. It renders one RAM value
// expression as host-language text into a *strings.Builder, delegating
// naming to the identifier mint (C1). Beyond that delegation it records two
// facts on the programEmitter for C4: that an auto-increment was seen
// (needsCounter) and which user-defined operators were called
// (userDefinedOps).

import (
	"fmt"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func (pe *programEmitter) emitExpr(w *strings.Builder, e ram.Expr) {
	switch v := e.(type) {
	case *ram.SignedConstant:
		fmt.Fprintf(w, "RAM_SIGNED(%d)", v.Value)
	case *ram.UnsignedConstant:
		fmt.Fprintf(w, "RAM_UNSIGNED(%d)", v.Value)
	case *ram.FloatConstant:
		fmt.Fprintf(w, "RAM_FLOAT(%v)", v.Value)
	case *ram.TupleElement:
		fmt.Fprintf(w, "env%d[%d]", v.TupleID, v.Column)
	case *ram.AutoIncrement:
		pe.needsCounter = true
		w.WriteString("(ctr++)")
	case *ram.IntrinsicOperator:
		pe.emitIntrinsic(w, v)
	case *ram.UserDefinedOperator:
		pe.emitUserDefined(w, v)
	case *ram.PackRecord:
		pe.emitPackRecord(w, v)
	case *ram.SubroutineArgument:
		fmt.Fprintf(w, "args[%d]", v.Index)
	case *ram.SubroutineReturnValue:
		fmt.Fprintf(w, "ret[%d]", v.Index)
	case *ram.UndefValue:
		panic("synth: undef-value in value position")
	default:
		panic(fmt.Sprintf("synth: unsupported node type %T", e))
	}
}

// emitExprOrZero is used wherever a range-pattern column may be legally
// undef (the caller must substitute a literal zero instead of raising the
// undef-in-value-position error emitExpr enforces).
func (pe *programEmitter) emitExprOrZero(w *strings.Builder, e ram.Expr) {
	if ram.IsUndef(e) {
		w.WriteString("0")
		return
	}

	pe.emitExpr(w, e)
}

func (pe *programEmitter) emitIntrinsic(w *strings.Builder, op *ram.IntrinsicOperator) {
	args := op.Args

	unary := func(prefix string) {
		w.WriteString(prefix)
		w.WriteString("(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	}

	binary := func(hostOp string) {
		w.WriteString("(")
		pe.emitExpr(w, args[0])
		w.WriteString(" ")
		w.WriteString(hostOp)
		w.WriteString(" ")
		pe.emitExpr(w, args[1])
		w.WriteString(")")
	}

	switch op.Op {
	case ram.OpOrd:
		pe.emitExpr(w, args[0])
	case ram.OpStrlen:
		w.WriteString("static_cast<RamSigned>(symTable.resolve(")
		pe.emitExpr(w, args[0])
		w.WriteString(").size())")
	case ram.OpNegSigned, ram.OpNegUnsigned, ram.OpNegFloat:
		unary("-")
	case ram.OpBnot:
		unary("~")
	case ram.OpLnot:
		unary("!")
	case ram.OpF2I:
		w.WriteString("static_cast<RamSigned>(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	case ram.OpF2U:
		w.WriteString("static_cast<RamUnsigned>(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	case ram.OpI2F, ram.OpU2F:
		w.WriteString("static_cast<RamFloat>(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	case ram.OpI2U:
		w.WriteString("static_cast<RamUnsigned>(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	case ram.OpU2I:
		w.WriteString("static_cast<RamSigned>(")
		pe.emitExpr(w, args[0])
		w.WriteString(")")
	case ram.OpAdd:
		binary("+")
	case ram.OpSub:
		binary("-")
	case ram.OpMul:
		binary("*")
	case ram.OpDiv:
		binary("/")
	case ram.OpMod:
		binary("%")
	case ram.OpPow:
		w.WriteString("static_cast<int64_t>(std::pow(static_cast<int64_t>(")
		pe.emitExpr(w, args[0])
		w.WriteString("), static_cast<int64_t>(")
		pe.emitExpr(w, args[1])
		w.WriteString(")))")
	case ram.OpBand:
		binary("&")
	case ram.OpBor:
		binary("|")
	case ram.OpBxor:
		binary("^")
	case ram.OpLand:
		binary("&&")
	case ram.OpLor:
		binary("||")
	case ram.OpMin, ram.OpMax:
		fn := "std::min"
		if op.Op == ram.OpMax {
			fn = "std::max"
		}

		fmt.Fprintf(w, "%s({", fn)

		for i, a := range args {
			if i > 0 {
				w.WriteString(", ")
			}

			pe.emitExpr(w, a)
		}

		w.WriteString("})")
	case ram.OpCat:
		w.WriteString("symTable.lookup(")

		for i, a := range args {
			if i > 0 {
				w.WriteString(" + ")
			}

			w.WriteString("symTable.resolve(")
			pe.emitExpr(w, a)
			w.WriteString(")")
		}

		w.WriteString(")")
	case ram.OpSubstr:
		w.WriteString("symTable.lookup(substr_wrapper(symTable.resolve(")
		pe.emitExpr(w, args[0])
		w.WriteString("), ")
		pe.emitExpr(w, args[1])
		w.WriteString(", ")
		pe.emitExpr(w, args[2])
		w.WriteString("))")
	case ram.OpToNumber:
		w.WriteString("wrapper_tonumber(symTable.resolve(")
		pe.emitExpr(w, args[0])
		w.WriteString("))")
	case ram.OpToString:
		w.WriteString("symTable.lookup(std::to_string(")
		pe.emitExpr(w, args[0])
		w.WriteString("))")
	default:
		panic(fmt.Sprintf("synth: unsupported intrinsic operator %v", op.Op))
	}
}

func (pe *programEmitter) emitUserDefined(w *strings.Builder, op *ram.UserDefinedOperator) {
	pe.userDefinedOps[op.Name] = op

	returnKind := op.Type[len(op.Type)-1]
	if returnKind == 'S' {
		w.WriteString("symTable.lookup(")
	}

	w.WriteString(op.Name)
	w.WriteString("(")

	for i, a := range op.Args {
		if i > 0 {
			w.WriteString(", ")
		}

		if op.Type[i] == 'S' {
			w.WriteString("symTable.resolve(")
			pe.emitExpr(w, a)
			w.WriteString(").c_str()")
		} else {
			pe.emitExpr(w, a)
		}
	}

	w.WriteString(")")

	if returnKind == 'S' {
		w.WriteString(")")
	}
}

func (pe *programEmitter) emitPackRecord(w *strings.Builder, p *ram.PackRecord) {
	fmt.Fprintf(w, "pack(ram::Tuple<RamDomain,%d>({", len(p.Args))

	for i, a := range p.Args {
		if i > 0 {
			w.WriteString(", ")
		}

		pe.emitExpr(w, a)
	}

	w.WriteString("}))")
}
