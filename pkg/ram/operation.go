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
package ram

// Operation is a RAM node appearing under a query, or nested within another
// operation.  Closed family.
type Operation interface {
	isOperation()
}

// RelationOp is implemented by every operation that reads from or writes to
// a single named relation.  It replaces the source's
// dynamic_cast<RamRelationOperation*> check with a Go type assertion.
type RelationOp interface {
	Operation
	Rel() *Relation
}

// ParallelOp is implemented by the four operations legal only as the
// outermost operation under a query.  It replaces
// dynamic_cast<RamAbstractParallel*>.  Named distinctly from the
// statement-level Parallel to avoid colliding with it in this package.
type ParallelOp interface {
	Operation
	isParallel()
}

// tupleOp carries the loop-variable id every tuple-introducing operation
// binds.
type tupleOp struct {
	TupleID int
}

// nestedOp carries the operation to run for each tuple this operation binds.
type nestedOp struct {
	Nested Operation
}

// Scan iterates every tuple of Relation, binding TupleID, then runs Nested.
type Scan struct {
	tupleOp
	nestedOp
	Relation *Relation
}

func (*Scan) isOperation()      {}
func (s *Scan) Rel() *Relation  { return s.Relation }

// ParallelScan is Scan's parallel counterpart; legal only as the outermost
// operation under a query.
type ParallelScan struct {
	tupleOp
	nestedOp
	Relation *Relation
}

func (*ParallelScan) isOperation()     {}
func (*ParallelScan) isParallel()      {}
func (s *ParallelScan) Rel() *Relation { return s.Relation }

// IndexScan iterates tuples of Relation matching Pattern (a per-column
// value-or-undef range pattern) using the index that the pattern's search
// signature selects.
type IndexScan struct {
	tupleOp
	nestedOp
	Relation *Relation
	Pattern  []Expr
}

func (*IndexScan) isOperation()      {}
func (s *IndexScan) Rel() *Relation  { return s.Relation }

// ParallelIndexScan is IndexScan's parallel counterpart.
type ParallelIndexScan struct {
	tupleOp
	nestedOp
	Relation *Relation
	Pattern  []Expr
}

func (*ParallelIndexScan) isOperation()     {}
func (*ParallelIndexScan) isParallel()      {}
func (s *ParallelIndexScan) Rel() *Relation { return s.Relation }

// Choice iterates Relation and stops after the first tuple satisfying
// Condition, running Nested once for it.
type Choice struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Condition Condition
}

func (*Choice) isOperation()     {}
func (s *Choice) Rel() *Relation { return s.Relation }

// ParallelChoice is Choice's parallel counterpart.
type ParallelChoice struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Condition Condition
}

func (*ParallelChoice) isOperation()     {}
func (*ParallelChoice) isParallel()      {}
func (s *ParallelChoice) Rel() *Relation { return s.Relation }

// IndexChoice combines IndexScan's pattern-restricted iteration with
// Choice's stop-at-first-match semantics.
type IndexChoice struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Pattern   []Expr
	Condition Condition
}

func (*IndexChoice) isOperation()     {}
func (s *IndexChoice) Rel() *Relation { return s.Relation }

// ParallelIndexChoice is IndexChoice's parallel counterpart.
type ParallelIndexChoice struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Pattern   []Expr
	Condition Condition
}

func (*ParallelIndexChoice) isOperation()     {}
func (*ParallelIndexChoice) isParallel()      {}
func (s *ParallelIndexChoice) Rel() *Relation { return s.Relation }

// AggregateFunc names the reduction an Aggregate/IndexAggregate performs.
type AggregateFunc uint8

// Aggregate functions.
const (
	AggMin AggregateFunc = iota
	AggMax
	AggCount
	AggSum
)

// Aggregate reduces over every tuple of Relation matching Condition,
// binding the single-column result as TupleID's tuple before running
// Nested.
type Aggregate struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Function  AggregateFunc
	Target    Expr
	Condition Condition
}

func (*Aggregate) isOperation()     {}
func (s *Aggregate) Rel() *Relation { return s.Relation }

// IndexAggregate restricts Aggregate's iteration to tuples matching Pattern.
type IndexAggregate struct {
	tupleOp
	nestedOp
	Relation  *Relation
	Function  AggregateFunc
	Target    Expr
	Pattern   []Expr
	Condition Condition
}

func (*IndexAggregate) isOperation()     {}
func (s *IndexAggregate) Rel() *Relation { return s.Relation }

// UnpackRecord evaluates Reference; if it is the null record sentinel the
// enclosing loop iteration is skipped, otherwise it is unpacked into a
// fresh tuple of Arity columns bound to TupleID before running Nested.
type UnpackRecord struct {
	tupleOp
	nestedOp
	Reference Expr
	Arity     int
}

func (*UnpackRecord) isOperation() {}

// Filter runs Nested only when Condition holds.
type Filter struct {
	nestedOp
	Condition Condition
	// ProfileText, if non-empty, names the frequency counter incremented
	// each time the guard passes while profiling is enabled.
	ProfileText string
}

func (*Filter) isOperation() {}

// Break exits the innermost enclosing loop when Condition holds, otherwise
// runs Nested.
type Break struct {
	nestedOp
	Condition Condition
}

func (*Break) isOperation() {}

// Project inserts a tuple built from Values into Relation.
type Project struct {
	Relation *Relation
	Values   []Expr
}

func (*Project) isOperation()     {}
func (s *Project) Rel() *Relation { return s.Relation }

// TupleID returns the loop-variable id an operation binds, if any.
func TupleID(op Operation) (int, bool) {
	switch o := op.(type) {
	case *Scan:
		return o.TupleID, true
	case *ParallelScan:
		return o.TupleID, true
	case *IndexScan:
		return o.TupleID, true
	case *ParallelIndexScan:
		return o.TupleID, true
	case *Choice:
		return o.TupleID, true
	case *ParallelChoice:
		return o.TupleID, true
	case *IndexChoice:
		return o.TupleID, true
	case *ParallelIndexChoice:
		return o.TupleID, true
	case *Aggregate:
		return o.TupleID, true
	case *IndexAggregate:
		return o.TupleID, true
	case *UnpackRecord:
		return o.TupleID, true
	default:
		return 0, false
	}
}

// Nested returns the operation to run once op's binding succeeds, if op
// nests another operation.
func Nested(op Operation) (Operation, bool) {
	switch o := op.(type) {
	case *Scan:
		return o.Nested, o.Nested != nil
	case *ParallelScan:
		return o.Nested, o.Nested != nil
	case *IndexScan:
		return o.Nested, o.Nested != nil
	case *ParallelIndexScan:
		return o.Nested, o.Nested != nil
	case *Choice:
		return o.Nested, o.Nested != nil
	case *ParallelChoice:
		return o.Nested, o.Nested != nil
	case *IndexChoice:
		return o.Nested, o.Nested != nil
	case *ParallelIndexChoice:
		return o.Nested, o.Nested != nil
	case *Aggregate:
		return o.Nested, o.Nested != nil
	case *IndexAggregate:
		return o.Nested, o.Nested != nil
	case *UnpackRecord:
		return o.Nested, o.Nested != nil
	case *Filter:
		return o.Nested, o.Nested != nil
	case *Break:
		return o.Nested, o.Nested != nil
	default:
		return nil, false
	}
}
