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

// Package ram defines the relational-algebra-machine intermediate
// representation consumed by the synthesiser: statements, operations,
// conditions and value expressions, plus the relation and program shells
// that hold them together.
package ram

import (
	"github.com/bits-and-blooms/bitset"
)

// IndexSignature is a bitmask over a relation's columns identifying which of
// them are bound by some lookup.  Bit i set means column i is bound.
type IndexSignature struct {
	bits *bitset.BitSet
}

// NewIndexSignature returns an empty signature sized for a relation of the
// given arity.
func NewIndexSignature(arity int) IndexSignature {
	return IndexSignature{bitset.New(uint(arity))}
}

// SignatureFromColumns builds a signature with exactly the given columns set.
func SignatureFromColumns(cols ...int) IndexSignature {
	max := 0
	for _, c := range cols {
		if c+1 > max {
			max = c + 1
		}
	}

	sig := NewIndexSignature(max)
	for _, c := range cols {
		sig.Set(c)
	}

	return sig
}

// Set marks column as bound.
func (s IndexSignature) Set(column int) {
	s.bits.Set(uint(column))
}

// Test returns whether column is bound.
func (s IndexSignature) Test(column int) bool {
	return s.bits.Test(uint(column))
}

// PopCount returns the number of bound columns.
func (s IndexSignature) PopCount() int {
	return int(s.bits.Count())
}

// Columns returns the bound column indices in ascending order.
func (s IndexSignature) Columns() []int {
	var cols []int

	for i, e := s.bits.NextSet(0); e; i, e = s.bits.NextSet(i + 1) {
		cols = append(cols, int(i))
	}

	return cols
}

// Equals compares two signatures for bitwise equality.
func (s IndexSignature) Equals(other IndexSignature) bool {
	return s.bits.Equal(other.bits)
}
