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

// Package analysis provides the index-analysis collaborator the
// synthesiser consumes as a pure query: given a RAM operation, what search
// signature does it require, and which signatures does a relation need
// indices for.  This package is a caller-replaceable stand-in for an
// upstream optimiser; the synthesiser only ever calls through the Index
// interface.
package analysis

import (
	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// Index answers search-signature queries about RAM operations and
// relations.
type Index interface {
	// SearchSignature returns the bound-column bitmask op's key requires.
	SearchSignature(op ram.Operation) mint.SearchSignature
	// IsTotalSignature reports whether op binds every column of its
	// relation, permitting a direct-membership emission instead of a range
	// query.
	IsTotalSignature(op ram.Operation) bool
	// Indexes returns every distinct search signature required somewhere
	// in the program for rel, in no particular order.
	Indexes(rel *ram.Relation) []mint.SearchSignature
}
