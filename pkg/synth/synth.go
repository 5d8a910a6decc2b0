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

// Package synth implements the synthesiser itself: translation of a RAM
// program into a single host-language translation unit.  It ties together
// the identifier mint (pkg/mint), the index-analysis and relation-type
// collaborators (pkg/analysis, pkg/reltype), and the caller's Config
// (pkg/config).
package synth

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/lattice-db/synthesiser/pkg/analysis"
	"github.com/lattice-db/synthesiser/pkg/config"
	"github.com/lattice-db/synthesiser/pkg/mint"
	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/reltype"
)

// Result is what one call to Generate produces.
type Result struct {
	// Source is the emitted translation unit.
	Source string
	// WithSharedLibrary is set iff the program contains at least one
	// user-defined operator, meaning the emitted extern "C" declarations
	// require linking against a caller-supplied shared library.
	WithSharedLibrary bool
}

// Synthesiser translates RAM programs to host-language source text.  Every
// Synthesiser value owns its own identifier mint, so distinct Synthesiser
// values may run concurrently in the same process without collision, a
// property the source's function-local static counters could not offer.
type Synthesiser struct {
	Index   analysis.Index
	Types   reltype.Factory
	Config  config.Config
	mint    *mint.Mint
}

// New returns a Synthesiser configured with the given collaborators.  If
// idx or types is nil, the reference implementations (analysis.Static,
// reltype.Standard) are substituted; NewStatic requires the program up
// front, so a nil idx is resolved lazily inside Generate.
func New(idx analysis.Index, types reltype.Factory, cfg config.Config) *Synthesiser {
	if types == nil {
		types = reltype.Standard{}
	}

	return &Synthesiser{
		Index:  idx,
		Types:  types,
		Config: cfg,
		mint:   mint.New(),
	}
}

// Generate translates prog into a single translation unit. Internal
// invariant violations (unsupported node kind, undef-value in a value
// position, malformed parallel nesting) are raised as panics deep in the
// emitters and recovered here, converted into a returned error so that
// callers, including cmd/synth, never need to recover a panic
// themselves.
func (s *Synthesiser) Generate(prog *ram.Program) (result Result, err error) {
	if s.Index == nil {
		s.Index = analysis.NewStatic(prog)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synth: %v", r)
		}
	}()

	if s.Config.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.Debugf("synthesising program %q (%d relations)", prog.Name, len(prog.Relations))

	pe := &programEmitter{s: s, prog: prog, out: &strings.Builder{}}
	pe.emit()

	log.Debugf("synthesis of %q complete: %d bytes, sharedLibrary=%v",
		prog.Name, pe.out.Len(), pe.withSharedLibrary)

	return Result{Source: pe.out.String(), WithSharedLibrary: pe.withSharedLibrary}, nil
}
