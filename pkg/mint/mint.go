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

// Package mint implements the identifier and index mint (component C1):
// deterministic, collision-free renaming of Datalog names into legal host
// identifiers, search-signature template rendering, and profiling counter
// allocation.
//
// Every Mint value owns its own maps.  The source used function-local
// static counters for this state, which would leak across independently
// constructed synthesiser instances; here each Mint (and hence each
// synth.Synthesiser embedding one) is independent, so multiple synthesis
// runs may proceed concurrently in the same process without collision or
// locking.
package mint

import (
	"github.com/lattice-db/synthesiser/pkg/ram"
)

// SearchSignature is an alias for ram.IndexSignature: the bitmask over
// relation columns identifying which are bound by a lookup.  Kept as an
// alias (rather than a fresh type) so index-analysis code operating on
// ram.Operation values and mint code rendering templates share one
// representation without a conversion at the boundary.
type SearchSignature = ram.IndexSignature

// Mint carries every piece of derived, per-synthesis-run state that C1
// mints: the identifier map, the relation-type cache, and the two
// profiling counter maps.
type Mint struct {
	idents map[string]string
	types  map[string]bool
	freqs  map[string]int
	reads  map[string]int
}

// New returns an empty Mint.
func New() *Mint {
	return &Mint{
		idents: make(map[string]string),
		types:  make(map[string]bool),
		freqs:  make(map[string]int),
		reads:  make(map[string]int),
	}
}

// MarkTypeEmitted records that a relation type named name has been emitted,
// returning true if this is the first time (i.e. the caller should emit
// it), false if some earlier call already claimed it.
func (m *Mint) MarkTypeEmitted(name string) bool {
	if m.types[name] {
		return false
	}

	m.types[name] = true

	return true
}

// FreqIndex returns the dense index assigned to a profiling text, allocating
// the next free index on first use.  Allocation is monotone.
func (m *Mint) FreqIndex(text string) int {
	if idx, ok := m.freqs[text]; ok {
		return idx
	}

	idx := len(m.freqs)
	m.freqs[text] = idx

	return idx
}

// ReadIndex returns the dense index assigned to a relation's existence-check
// read counter, allocating the next free index on first use.
func (m *Mint) ReadIndex(relDots string) int {
	if idx, ok := m.reads[relDots]; ok {
		return idx
	}

	idx := len(m.reads)
	m.reads[relDots] = idx

	return idx
}

// FreqCount returns the number of distinct profiling texts seen so far,
// sizing the emitted freqs[] array.
func (m *Mint) FreqCount() int {
	return len(m.freqs)
}

// ReadCount returns the number of distinct relations with an allocated read
// counter, sizing the emitted reads[] array.
func (m *Mint) ReadCount() int {
	return len(m.reads)
}
