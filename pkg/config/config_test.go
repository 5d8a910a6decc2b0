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
package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfilingEnabled(t *testing.T) {
	require.False(t, Config{}.ProfilingEnabled())
	require.True(t, Config{Profile: "out.prof"}.ProfilingEnabled())
}

func TestWithProvenance(t *testing.T) {
	require.False(t, Config{}.WithProvenance())
	require.False(t, Config{Provenance: ProvenanceNone}.WithProvenance())
	require.True(t, Config{Provenance: ProvenanceExplain}.WithProvenance())
	require.True(t, Config{Provenance: ProvenanceExplore}.WithProvenance())
}

func TestGet_RawEscapeHatch(t *testing.T) {
	cfg := Config{Raw: map[string]string{"": "myprogram.dl"}}

	v, ok := cfg.Get("")
	require.True(t, ok)
	require.Equal(t, "myprogram.dl", v)

	_, ok = cfg.Get("missing")
	require.False(t, ok)
}
