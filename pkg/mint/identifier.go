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
package mint

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

// maxHostIDLen is a best-effort guard against downstream compiler
// identifier-length limits.  Collisions after truncation are deemed
// impossible under the prefixed numeric counter and are not re-checked.
const maxHostIDLen = 1024

// HostID returns the legal host identifier assigned to a Datalog name,
// minting a fresh one on first lookup.  The mapping is a bijection: distinct
// inputs yield distinct host-ids, identical inputs yield identical ones,
// and the assigned prefix depends only on insertion order.
func (m *Mint) HostID(name string) string {
	if id, ok := m.idents[name]; ok {
		return id
	}

	n := len(m.idents) + 1
	id := fmt.Sprintf("%d_%s", n, sanitiseTail(name))
	m.idents[name] = id

	return id
}

// RelationHostID returns the host identifier for a relation, prefixed so it
// cannot collide with a rule- or subroutine-derived identifier sharing the
// same Datalog name.
func (m *Mint) RelationHostID(rel *ram.Relation) string {
	return "rel_" + m.HostID(rel.Name)
}

// OpContextID returns the stable token keying rel's per-thread operation
// context handle.
func (m *Mint) OpContextID(rel *ram.Relation) string {
	return m.RelationHostID(rel) + "_op_ctxt"
}

// sanitiseTail strips leading characters illegal at the start of an
// identifier, folds every run of remaining illegal characters to a single
// underscore, and truncates to maxHostIDLen.
func sanitiseTail(name string) string {
	runes := []rune(name)

	start := 0
	for start < len(runes) && !isIdentStart(runes[start]) {
		start++
	}

	runes = runes[start:]

	var b strings.Builder

	folding := false

	for _, r := range runes {
		if isIdentPart(r) {
			b.WriteRune(r)
			folding = false
		} else if !folding {
			b.WriteByte('_')
			folding = true
		}
	}

	out := b.String()
	if len(out) > maxHostIDLen {
		out = out[:maxHostIDLen]
	}

	return out
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
