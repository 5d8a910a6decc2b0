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
	"fmt"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

func (pe *programEmitter) emitCondition(w *strings.Builder, c ram.Condition) {
	switch v := c.(type) {
	case *ram.True:
		w.WriteString("true")
	case *ram.False:
		w.WriteString("false")
	case *ram.Conjunction:
		w.WriteString("(")
		pe.emitCondition(w, v.Left)
		w.WriteString(" && ")
		pe.emitCondition(w, v.Right)
		w.WriteString(")")
	case *ram.Negation:
		w.WriteString("!(")
		pe.emitCondition(w, v.Inner)
		w.WriteString(")")
	case *ram.Constraint:
		pe.emitConstraint(w, v)
	case *ram.EmptinessCheck:
		fmt.Fprintf(w, "%s->empty()", pe.s.mint.RelationHostID(v.Relation))
	case *ram.ExistenceCheck:
		pe.emitExistenceCheck(w, v)
	case *ram.ProvenanceExistenceCheck:
		pe.emitProvenanceExistenceCheck(w, v)
	default:
		panic(fmt.Sprintf("synth: unsupported node type %T", c))
	}
}

func (pe *programEmitter) emitConstraint(w *strings.Builder, c *ram.Constraint) {
	op, ok := constraintOperators[c.Op]
	if !ok {
		panic(fmt.Sprintf("synth: unsupported node type constraint op %v", c.Op))
	}

	switch c.Op {
	// MATCH/NOT_MATCH treat Left as the pattern and Right as the text
	// being matched against it; CONTAINS/NOT_CONTAINS treat Right as the
	// haystack and Left as the needle. Both follow the same operand
	// convention the constraint's original two-argument form uses.
	case ram.CMatch, ram.CNotMatch:
		if c.Op == ram.CNotMatch {
			w.WriteString("!")
		}

		w.WriteString("regex_wrapper(symTable.resolve(")
		pe.emitExpr(w, c.Left)
		w.WriteString("), symTable.resolve(")
		pe.emitExpr(w, c.Right)
		w.WriteString("))")

		return
	case ram.CContains, ram.CNotContains:
		w.WriteString("(symTable.resolve(")
		pe.emitExpr(w, c.Right)
		w.WriteString(").find(symTable.resolve(")
		pe.emitExpr(w, c.Left)
		w.WriteString(")) ")

		if c.Op == ram.CContains {
			w.WriteString("!= std::string::npos)")
		} else {
			w.WriteString("== std::string::npos)")
		}

		return
	}

	w.WriteString("(")
	pe.emitExpr(w, c.Left)
	w.WriteString(" ")
	w.WriteString(op)
	w.WriteString(" ")
	pe.emitExpr(w, c.Right)
	w.WriteString(")")
}

var constraintOperators = map[ram.ConstraintOp]string{
	ram.CEq:  "==",
	ram.CNe:  "!=",
	ram.CSLt: "<",
	ram.CSLe: "<=",
	ram.CSGt: ">",
	ram.CSGe: ">=",
	ram.CULt: "<",
	ram.CULe: "<=",
	ram.CUGt: ">",
	ram.CUGe: ">=",
	ram.CFLt: "<",
	ram.CFLe: "<=",
	ram.CFGt: ">",
	ram.CFGe: ">=",
	// MATCH/NOT_MATCH/CONTAINS/NOT_CONTAINS are special-cased above and
	// never consult this table for their host operator text; they are
	// listed here only so the map covers every constraint kind and a
	// missing-entry panic can never silently mis-render one of them.
	ram.CMatch:       "",
	ram.CNotMatch:    "",
	ram.CContains:    "",
	ram.CNotContains: "",
}

func (pe *programEmitter) emitExistenceCheck(w *strings.Builder, c *ram.ExistenceCheck) {
	sig := patternSignature(c.Pattern)
	total := sig.PopCount() == c.Relation.Arity
	relID := pe.s.mint.RelationHostID(c.Relation)

	profiled := pe.s.Config.ProfilingEnabled() && !c.Relation.Temporary
	if profiled {
		idx := pe.s.mint.ReadIndex(strings.ReplaceAll(c.Relation.Name, "-", "."))
		fmt.Fprintf(w, "(reads[%d]++, ", idx)
	}

	if total {
		w.WriteString(relID)
		w.WriteString("->contains(Tuple<RamDomain,")
		fmt.Fprintf(w, "%d>{{", c.Relation.TotalArity())

		for i, e := range c.Pattern {
			if i > 0 {
				w.WriteString(", ")
			}

			pe.emitExprOrZero(w, e)
		}

		w.WriteString("}}, ")
		pe.emitReadOpContext(w, c.Relation)
		w.WriteString(")")
	} else {
		w.WriteString("!")
		w.WriteString(relID)
		w.WriteString("->equalRange")
		w.WriteString(mint.IndexTemplate(sig))
		w.WriteString("(Tuple<RamDomain,")
		fmt.Fprintf(w, "%d>{{", c.Relation.TotalArity())

		for i, e := range c.Pattern {
			if i > 0 {
				w.WriteString(", ")
			}

			pe.emitExprOrZero(w, e)
		}

		w.WriteString("}}, ")
		pe.emitReadOpContext(w, c.Relation)
		w.WriteString(").empty()")
	}

	if profiled {
		w.WriteString(")")
	}
}

// patternSignature computes the bound-column bitmask for a range pattern
// directly (bound columns are those whose entry is not the undef-value
// sentinel). Conditions are not part of the closed ram.Operation family the
// analysis.Index interface accepts, so existence checks compute their own
// signature here rather than through that collaborator; the rule is the
// same one analysis.Static applies to pattern-carrying operations.
func patternSignature(pattern []ram.Expr) mint.SearchSignature {
	sig := ram.NewIndexSignature(len(pattern))

	for i, e := range pattern {
		if !ram.IsUndef(e) {
			sig.Set(i)
		}
	}

	return sig
}

func (pe *programEmitter) emitProvenanceExistenceCheck(w *strings.Builder, c *ram.ProvenanceExistenceCheck) {
	relID := pe.s.mint.RelationHostID(c.Relation)
	arity := c.Relation.TotalArity()

	w.WriteString("[&]() -> bool {\n")
	fmt.Fprintf(w, "    auto range = %s->equalRange(Tuple<RamDomain,%d>{{", relID, arity)

	for i, e := range c.Pattern {
		if i > 0 {
			w.WriteString(", ")
		}

		pe.emitExprOrZero(w, e)
	}

	for range c.Heights {
		w.WriteString(", 0")
	}

	w.WriteString("}}, ")
	pe.emitReadOpContext(w, c.Relation)
	w.WriteString(");\n")
	w.WriteString("    if (range.empty()) return false;\n")
	w.WriteString("    for (auto& cur : range) {\n")
	w.WriteString("        bool dominated = false;\n")

	for i, h := range c.Heights {
		col := len(c.Pattern) + i
		fmt.Fprintf(w, "        if (cur[%d] < (", col)
		pe.emitExpr(w, h)
		w.WriteString(")) { dominated = true; break; }\n")
		fmt.Fprintf(w, "        else if (cur[%d] > (", col)
		pe.emitExpr(w, h)
		w.WriteString(")) break;\n")
	}

	w.WriteString("        if (dominated) return true;\n")
	w.WriteString("    }\n")
	w.WriteString("    return false;\n")
	w.WriteString("}()")
}
