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
package reltype

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// Standard is the reference Factory. It picks a representation name
// (btree, direct, eqrel) from the relation's declared Representation field,
// and renders a struct definition using the same
// equalRange_<sig> naming scheme the expression and operation emitters
// assume, so an emitted program is internally consistent even though the
// runtime's own relation-type internals are an external collaborator.
type Standard struct{}

// Relation implements Factory.
func (Standard) Relation(rel *ram.Relation, indices []mint.SearchSignature, withProvenance bool) Descriptor {
	templates := make([]string, len(indices))
	for i, sig := range indices {
		templates[i] = mint.IndexTemplate(sig)
	}

	sort.Strings(templates)

	return &standardDescriptor{
		repr:           representationName(rel),
		arity:          rel.TotalArity(),
		attrTypes:      rel.AttributeTypes,
		templates:      templates,
		withProvenance: withProvenance,
	}
}

func representationName(rel *ram.Relation) string {
	switch rel.Representation {
	case ram.Direct:
		return "direct"
	case ram.Eqrel:
		return "eqrel"
	default:
		return "btree"
	}
}

type standardDescriptor struct {
	repr           string
	arity          int
	attrTypes      []string
	templates      []string
	withProvenance bool
}

// TypeName implements Descriptor. The name is a pure function of the
// relation's shape (representation, arity, index set, provenance flag) so
// relations sharing a shape share a type, matching the "emit each relation
// type at most once" invariant C4 relies on.
func (d *standardDescriptor) TypeName() string {
	var b strings.Builder

	fmt.Fprintf(&b, "t_%s_%d", d.repr, d.arity)

	for _, t := range d.templates {
		b.WriteString("_")
		b.WriteString(sanitiseTemplate(t))
	}

	if d.withProvenance {
		b.WriteString("_prov")
	}

	return b.String()
}

func sanitiseTemplate(t string) string {
	var b strings.Builder

	for _, r := range t {
		switch r {
		case '<', '>':
			continue
		case ',':
			b.WriteByte('x')
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// WriteTypeStruct implements Descriptor.
func (d *standardDescriptor) WriteTypeStruct(w io.Writer) {
	fmt.Fprintf(w, "struct %s {\n", d.TypeName())
	fmt.Fprintf(w, "    using Representation = %s_relation<%d>;\n", d.repr, d.arity)
	fmt.Fprintf(w, "    static constexpr std::size_t Arity = %d;\n", d.arity)

	for _, tmpl := range d.templates {
		fmt.Fprintf(w, "    using index_%s = Representation::index%s;\n", sanitiseTemplate(tmpl), tmpl)
	}

	w.Write([]byte("};\n"))
}
