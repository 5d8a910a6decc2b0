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

// Package config models the options the synthesiser reads. Unlike the
// source's Global::config() singleton, Config is a plain value passed by
// the caller: RAM synthesis must be safe to invoke concurrently for
// multiple programs in the same process, and a global would prevent that.
package config

// Provenance names one of the provenance-reporting modes a program may be
// synthesised with.
type Provenance string

// Provenance modes.
const (
	ProvenanceNone           Provenance = ""
	ProvenanceExplain        Provenance = "explain"
	ProvenanceSubtreeHeights Provenance = "subtreeHeights"
	ProvenanceExplore        Provenance = "explore"
)

// Config is the exact set of options the synthesiser reads, named after
// their source CLI flags.
type Config struct {
	// DebugReport carries the debug-report option. The synthesiser stores
	// it but writes no debug report.
	DebugReport string
	// Verbose enables debug-level logging.
	Verbose bool
	// Profile, if non-empty, is the path emitted code should write its
	// profile event log to; a non-empty value also enables profiling
	// counters (freqs/reads) in emitted code.
	Profile string
	Provenance Provenance
	// LiveProfile enables the emitted program's interactive TUI profiler.
	LiveProfile bool
	// Jobs is the thread count the emitted program's runFunction sets on
	// start-up; zero means "use the runtime's default".
	Jobs int
	// Version carries the synthesiser's own version string; the emitted
	// program does not include it.
	Version string
	// SourceFileName documents the literal "" config key: the display name
	// of the Datalog source file this program was compiled from.
	SourceFileName string
	// Raw is an escape hatch for any additional string-keyed option a
	// caller wants to thread through without a corresponding typed field.
	Raw map[string]string
}

// ProfilingEnabled reports whether profiling counters must be emitted.
func (c Config) ProfilingEnabled() bool {
	return c.Profile != ""
}

// WithProvenance reports whether provenance support must be emitted.
func (c Config) WithProvenance() bool {
	return c.Provenance != ProvenanceNone
}

// Get looks up a raw string-keyed option not covered by a typed field.
func (c Config) Get(key string) (string, bool) {
	v, ok := c.Raw[key]
	return v, ok
}
