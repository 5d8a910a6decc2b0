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

// Condition is a RAM boolean-valued node.  Closed family, as with Expr.
type Condition interface {
	isCondition()
}

// True is the constant true condition.
type True struct{}

func (*True) isCondition() {}

// False is the constant false condition.
type False struct{}

func (*False) isCondition() {}

// Conjunction is the logical AND of Left and Right.
type Conjunction struct {
	Left, Right Condition
}

func (*Conjunction) isCondition() {}

// Negation is the logical NOT of Inner.
type Negation struct {
	Inner Condition
}

func (*Negation) isCondition() {}

// ConstraintOp names one of the binary comparison operators.
type ConstraintOp uint8

// Binary constraint operators.
const (
	CEq ConstraintOp = iota
	CNe
	// Signed
	CSLt
	CSLe
	CSGt
	CSGe
	// Unsigned
	CULt
	CULe
	CUGt
	CUGe
	// Float
	CFLt
	CFLe
	CFGt
	CFGe
	// Strings
	CMatch
	CNotMatch
	CContains
	CNotContains
)

// Constraint is a binary comparison between two value expressions. For the
// ordering/equality operators Left and Right are simply the two operands;
// for CMatch/CNotMatch, Left is the regular-expression pattern and Right is
// the text tested against it, and for CContains/CNotContains, Right is the
// haystack and Left is the needle searched for within it.
type Constraint struct {
	Op          ConstraintOp
	Left, Right Expr
}

func (*Constraint) isCondition() {}

// EmptinessCheck holds iff Relation currently has no tuples.
type EmptinessCheck struct {
	Relation *Relation
}

func (*EmptinessCheck) isCondition() {}

// ExistenceCheck holds iff Relation contains a tuple matching Pattern, a
// per-column value-or-undef range pattern.
type ExistenceCheck struct {
	Relation *Relation
	Pattern  []Expr
}

func (*ExistenceCheck) isCondition() {}

// ProvenanceExistenceCheck holds iff Relation contains a tuple matching the
// data columns of Pattern whose stored provenance height vector is strictly
// dominated, in lexicographic order, by Heights.
type ProvenanceExistenceCheck struct {
	Relation *Relation
	Pattern  []Expr
	Heights  []Expr
}

func (*ProvenanceExistenceCheck) isCondition() {}
