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

// Component C3: the operation emitter. It emits a statement block
// implementing a RAM operation tree, introducing loop variables env<id> and
// respecting the index, parallelism and context policies determined
// upstream. Preamble state (accumulated operation-context creation lines,
// and whether an outer loop has already been rendered in parallel form) is
// owned by an opEmitter constructed fresh by C4 per query or subroutine.

import (
	"fmt"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// opEmitter carries the state one query's emission shares between its
// outer framing and every operation nested inside it. The source carries
// this as a member buffer on its visitor; here it is an explicit struct
// constructed fresh per query and threaded by pointer down the recursive
// calls, so two queries emitted back to back never see each other's state.
type opEmitter struct {
	pe             *programEmitter
	preamble       strings.Builder
	preambleIssued bool
}

// emitQuery implements the query framing described in the operation
// emitter's design: split off context-free filter conjuncts, decide
// parallelism, build the context-creation preamble, and emit either the
// sequential or parallel path.
func (pe *programEmitter) emitQuery(w *strings.Builder, q *ram.Query) {
	oe := &opEmitter{pe: pe}

	root := q.Root

	var (
		outerFree  []ram.Condition
		outerGuard []ram.Condition
	)

	if f, ok := root.(*ram.Filter); ok {
		for _, conjunct := range ram.SplitConjuncts(f.Condition) {
			if ram.MentionsExistenceCheck(conjunct) {
				outerGuard = append(outerGuard, conjunct)
			} else {
				outerFree = append(outerFree, conjunct)
			}
		}

		if nested, ok := ram.Nested(f); ok {
			root = nested
		} else {
			root = nil
		}
	}

	isParallel := containsParallel(root)

	for _, rel := range mint.ReferencedRelations(root) {
		fmt.Fprintf(&oe.preamble, "CREATE_OP_CONTEXT(%s, %s->createContext());\n",
			pe.s.mint.OpContextID(rel), pe.s.mint.RelationHostID(rel))
	}

	for _, cond := range outerFree {
		w.WriteString("if (")
		pe.emitCondition(w, cond)
		w.WriteString(") {\n")
	}

	w.WriteString("[&]() {\n")

	if !isParallel {
		w.WriteString(oe.preamble.String())
		oe.preambleIssued = true

		if len(outerGuard) > 0 {
			w.WriteString("if (")
			pe.emitConjuncts(w, outerGuard)
			w.WriteString(") {\n")
		}

		if root != nil {
			pe.emitOperation(w, oe, root)
		}

		if len(outerGuard) > 0 {
			w.WriteString("}\n")
		}
	} else if root != nil {
		p, ok := root.(ram.ParallelOp)
		if !ok {
			panic("synth: parallel operation not outermost")
		}

		pe.emitParallelOperation(w, oe, p, outerGuard)
	}

	w.WriteString("}();\n")

	for range outerFree {
		w.WriteString("}\n")
	}
}

func (pe *programEmitter) emitConjuncts(w *strings.Builder, conds []ram.Condition) {
	for i, c := range conds {
		if i > 0 {
			w.WriteString(" && ")
		}

		pe.emitCondition(w, c)
	}
}

func containsParallel(op ram.Operation) bool {
	found := false

	ram.WalkOperation(op, func(o ram.Operation) {
		if _, ok := o.(ram.ParallelOp); ok {
			found = true
		}
	})

	return found
}

// emitOperation dispatches op to its non-parallel emission rule. A parallel
// operation reaching here is, by construction, not the outermost operation
// of its query (the caller handles that case directly via
// emitParallelOperation), which is itself an invariant violation.
func (pe *programEmitter) emitOperation(w *strings.Builder, oe *opEmitter, op ram.Operation) {
	if _, ok := op.(ram.ParallelOp); ok {
		panic("synth: parallel operation not outermost")
	}

	switch o := op.(type) {
	case *ram.Scan:
		fmt.Fprintf(w, "for (const auto& env%d : *%s) {\n", o.TupleID, pe.s.mint.RelationHostID(o.Relation))
		pe.emitNested(w, oe, o.Nested)
		w.WriteString("}\n")
	case *ram.IndexScan:
		pe.emitIndexScan(w, oe, o.TupleID, o.Relation, o.Pattern, o.Nested)
	case *ram.Choice:
		fmt.Fprintf(w, "for (const auto& env%d : *%s) {\n", o.TupleID, pe.s.mint.RelationHostID(o.Relation))
		w.WriteString("if (")
		pe.emitCondition(w, o.Condition)
		w.WriteString(") {\n")
		pe.emitNested(w, oe, o.Nested)
		w.WriteString("break;\n}\n}\n")
	case *ram.IndexChoice:
		pe.emitIndexChoice(w, oe, o.TupleID, o.Relation, o.Pattern, o.Condition, o.Nested)
	case *ram.UnpackRecord:
		pe.emitUnpackRecord(w, oe, o)
	case *ram.Aggregate:
		pe.emitAggregate(w, oe, o.TupleID, o.Relation, o.Function, o.Target, nil, o.Condition, o.Nested)
	case *ram.IndexAggregate:
		pe.emitAggregate(w, oe, o.TupleID, o.Relation, o.Function, o.Target, o.Pattern, o.Condition, o.Nested)
	case *ram.Filter:
		w.WriteString("if (")
		pe.emitCondition(w, o.Condition)
		w.WriteString(") {\n")
		pe.emitNested(w, oe, o.Nested)

		if pe.s.Config.ProfilingEnabled() && o.ProfileText != "" {
			idx := pe.s.mint.FreqIndex(o.ProfileText)
			fmt.Fprintf(w, "freqs[%d]++;\n", idx)
		}

		w.WriteString("}\n")
	case *ram.Break:
		w.WriteString("if (")
		pe.emitCondition(w, o.Condition)
		w.WriteString(") break;\n")
		pe.emitNested(w, oe, o.Nested)
	case *ram.Project:
		pe.emitProject(w, o)
	default:
		panic(fmt.Sprintf("synth: unsupported node type %T", op))
	}
}

func (pe *programEmitter) emitNested(w *strings.Builder, oe *opEmitter, nested ram.Operation) {
	if nested == nil {
		return
	}

	pe.emitOperation(w, oe, nested)
}

// emitReadOpContext wraps rel's operation-context handle in the
// READ_OP_CONTEXT macro, which resolves the CREATE_OP_CONTEXT-declared
// local at the read call site; the bare identifier is only valid at the
// point of declaration.
func (pe *programEmitter) emitReadOpContext(w *strings.Builder, rel *ram.Relation) {
	fmt.Fprintf(w, "READ_OP_CONTEXT(%s)", pe.s.mint.OpContextID(rel))
}

func (pe *programEmitter) emitKeyTuple(w *strings.Builder, rel *ram.Relation, pattern []ram.Expr) {
	fmt.Fprintf(w, "Tuple<RamDomain,%d>{{", rel.TotalArity())

	for i, e := range pattern {
		if i > 0 {
			w.WriteString(", ")
		}

		pe.emitExprOrZero(w, e)
	}

	w.WriteString("}}")
}

func (pe *programEmitter) emitIndexScan(
	w *strings.Builder, oe *opEmitter, tupleID int, rel *ram.Relation, pattern []ram.Expr, nested ram.Operation,
) {
	sig := patternSignature(pattern)
	relID := pe.s.mint.RelationHostID(rel)
	w.WriteString("auto range = ")
	w.WriteString(relID)
	w.WriteString("->equalRange")
	w.WriteString(mint.IndexTemplate(sig))
	w.WriteString("(")
	pe.emitKeyTuple(w, rel, pattern)
	w.WriteString(", ")
	pe.emitReadOpContext(w, rel)
	w.WriteString(");\n")
	fmt.Fprintf(w, "for (const auto& env%d : range) {\n", tupleID)
	pe.emitNested(w, oe, nested)
	w.WriteString("}\n")
}

func (pe *programEmitter) emitIndexChoice(
	w *strings.Builder, oe *opEmitter, tupleID int, rel *ram.Relation, pattern []ram.Expr, cond ram.Condition, nested ram.Operation,
) {
	sig := patternSignature(pattern)
	relID := pe.s.mint.RelationHostID(rel)
	w.WriteString("auto range = ")
	w.WriteString(relID)
	w.WriteString("->equalRange")
	w.WriteString(mint.IndexTemplate(sig))
	w.WriteString("(")
	pe.emitKeyTuple(w, rel, pattern)
	w.WriteString(", ")
	pe.emitReadOpContext(w, rel)
	w.WriteString(");\n")
	fmt.Fprintf(w, "for (const auto& env%d : range) {\n", tupleID)
	w.WriteString("if (")
	pe.emitCondition(w, cond)
	w.WriteString(") {\n")
	pe.emitNested(w, oe, nested)
	w.WriteString("break;\n}\n}\n")
}

func (pe *programEmitter) emitUnpackRecord(w *strings.Builder, oe *opEmitter, o *ram.UnpackRecord) {
	w.WriteString("const RamDomain* rec = unpack(")
	pe.emitExpr(w, o.Reference)
	fmt.Fprintf(w, ", %d);\n", o.Arity)
	w.WriteString("if (rec == nullptr) continue;\n")
	fmt.Fprintf(w, "Tuple<RamDomain,%d> env%d;\n", o.Arity, o.TupleID)
	fmt.Fprintf(w, "std::copy(rec, rec + %d, env%d.data());\n", o.Arity, o.TupleID)
	pe.emitNested(w, oe, o.Nested)
}

func aggregateInit(fn ram.AggregateFunc) string {
	switch fn {
	case ram.AggMin:
		return "MAX_RAM_DOMAIN"
	case ram.AggMax:
		return "MIN_RAM_DOMAIN"
	default:
		return "0"
	}
}

func (pe *programEmitter) emitAggregate(
	w *strings.Builder, oe *opEmitter, tupleID int, rel *ram.Relation, fn ram.AggregateFunc,
	target ram.Expr, pattern []ram.Expr, cond ram.Condition, nested ram.Operation,
) {
	relID := pe.s.mint.RelationHostID(rel)
	_, alwaysTrue := cond.(*ram.True)

	if fn == ram.AggCount && alwaysTrue && pattern == nil {
		fmt.Fprintf(w, "RamDomain res%d = %s->size();\n", tupleID, relID)
		fmt.Fprintf(w, "Tuple<RamDomain,1> env%d{{res%d}};\n", tupleID, tupleID)
		pe.emitNested(w, oe, nested)

		return
	}

	init := aggregateInit(fn)
	fmt.Fprintf(w, "RamDomain res%d = %s;\n", tupleID, init)

	if pattern != nil {
		sig := patternSignature(pattern)
		w.WriteString("auto range = ")
		w.WriteString(relID)
		w.WriteString("->equalRange")
		w.WriteString(mint.IndexTemplate(sig))
		w.WriteString("(")
		pe.emitKeyTuple(w, rel, pattern)
		w.WriteString(", ")
		pe.emitReadOpContext(w, rel)
		w.WriteString(");\n")
		w.WriteString("for (const auto& env0 : range) {\n")
	} else {
		fmt.Fprintf(w, "for (const auto& env0 : *%s) {\n", relID)
	}

	w.WriteString("if (")
	pe.emitCondition(w, cond)
	w.WriteString(") {\n")

	switch fn {
	case ram.AggMin:
		fmt.Fprintf(w, "res%d = std::min(res%d, static_cast<RamDomain>(", tupleID, tupleID)
		pe.emitExpr(w, target)
		w.WriteString("));\n")
	case ram.AggMax:
		fmt.Fprintf(w, "res%d = std::max(res%d, static_cast<RamDomain>(", tupleID, tupleID)
		pe.emitExpr(w, target)
		w.WriteString("));\n")
	case ram.AggCount:
		fmt.Fprintf(w, "res%d++;\n", tupleID)
	case ram.AggSum:
		fmt.Fprintf(w, "res%d += ", tupleID)
		pe.emitExpr(w, target)
		w.WriteString(";\n")
	}

	w.WriteString("}\n}\n")

	fmt.Fprintf(w, "Tuple<RamDomain,1> env%d{{res%d}};\n", tupleID, tupleID)

	if fn == ram.AggMin || fn == ram.AggMax {
		fmt.Fprintf(w, "if (res%d != %s) {\n", tupleID, init)
		pe.emitNested(w, oe, nested)
		w.WriteString("}\n")
	} else {
		pe.emitNested(w, oe, nested)
	}
}

func (pe *programEmitter) emitProject(w *strings.Builder, p *ram.Project) {
	relID := pe.s.mint.RelationHostID(p.Relation)

	w.WriteString(relID)
	w.WriteString("->insert(Tuple<RamDomain,")
	fmt.Fprintf(w, "%d>{{", p.Relation.TotalArity())

	for i, v := range p.Values {
		if i > 0 {
			w.WriteString(", ")
		}

		w.WriteString("static_cast<RamDomain>(")
		pe.emitExpr(w, v)
		w.WriteString(")")
	}

	w.WriteString("}}, ")
	pe.emitReadOpContext(w, p.Relation)
	w.WriteString(");\n")
}

// emitParallelOperation implements the parallel path described in the
// operation emitter's design: it may only run for the outermost operation
// under a query, asserted here by requiring the preamble not yet be
// issued.
func (pe *programEmitter) emitParallelOperation(w *strings.Builder, oe *opEmitter, op ram.ParallelOp, guard []ram.Condition) {
	if oe.preambleIssued {
		panic("synth: parallel operation not outermost")
	}

	oe.preambleIssued = true

	tupleID, _ := ram.TupleID(op)
	if tupleID != 0 {
		panic("synth: outer parallel loop tuple-id must be 0")
	}

	var (
		relID  string
		source string
		access string
		nested ram.Operation
		choice bool
		cond   ram.Condition
	)

	switch o := op.(type) {
	case *ram.ParallelScan:
		relID = pe.s.mint.RelationHostID(o.Relation)
		source = relID
		access = "->"
		nested = o.Nested
	case *ram.ParallelChoice:
		relID = pe.s.mint.RelationHostID(o.Relation)
		source = relID
		access = "->"
		nested = o.Nested
		choice = true
		cond = o.Condition
	case *ram.ParallelIndexScan:
		relID = pe.s.mint.RelationHostID(o.Relation)
		sig := patternSignature(o.Pattern)
		var kb strings.Builder
		pe.emitKeyTuple(&kb, o.Relation, o.Pattern)
		source = fmt.Sprintf("%s->equalRange%s(%s)", relID, mint.IndexTemplate(sig), kb.String())
		access = "."
		nested = o.Nested
	case *ram.ParallelIndexChoice:
		relID = pe.s.mint.RelationHostID(o.Relation)
		sig := patternSignature(o.Pattern)
		var kb strings.Builder
		pe.emitKeyTuple(&kb, o.Relation, o.Pattern)
		source = fmt.Sprintf("%s->equalRange%s(%s)", relID, mint.IndexTemplate(sig), kb.String())
		access = "."
		nested = o.Nested
		choice = true
		cond = o.Condition
	default:
		panic(fmt.Sprintf("synth: unsupported node type %T", op))
	}

	fmt.Fprintf(w, "auto part = (%s)%spartition();\n", source, access)
	w.WriteString("PARALLEL_START;\n")
	w.WriteString(oe.preamble.String())

	if len(guard) > 0 {
		w.WriteString("if (")
		pe.emitConjuncts(w, guard)
		w.WriteString(") {\n")
	}

	w.WriteString("pfor(auto it = part.begin(); it < part.end(); ++it) {\n")
	w.WriteString("try {\n")
	w.WriteString("for (const auto& env0 : *it) {\n")

	if choice {
		w.WriteString("if (")
		pe.emitCondition(w, cond)
		w.WriteString(") {\n")
		pe.emitNested(w, oe, nested)
		w.WriteString("break;\n}\n")
	} else {
		pe.emitNested(w, oe, nested)
	}

	w.WriteString("}\n")
	w.WriteString("} catch (std::exception& e) { SignalHandler::instance()->error(e.what()); }\n")
	w.WriteString("}\n")

	if len(guard) > 0 {
		w.WriteString("}\n")
	}

	w.WriteString("PARALLEL_END;\n")
}
