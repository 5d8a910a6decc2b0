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

// Package reltype provides the relation-type synthesiser collaborator: given
// a relation, its required indices and whether provenance is enabled,
// render the host-language struct definition backing it.  This package is a
// caller-replaceable stand-in for the runtime's own relation type family
// (B-tree, direct, eqrel); the synthesiser only depends on the Factory
// interface.
package reltype

import (
	"io"

	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// Factory produces a Descriptor for a relation given the indices it needs
// and whether the enclosing program has provenance enabled.
type Factory interface {
	Relation(rel *ram.Relation, indices []mint.SearchSignature, withProvenance bool) Descriptor
}

// Descriptor names a relation's emitted type and can render its
// definition.
type Descriptor interface {
	TypeName() string
	WriteTypeStruct(w io.Writer)
}
