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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexSignature_SetAndTest(t *testing.T) {
	sig := NewIndexSignature(4)
	sig.Set(1)
	sig.Set(3)

	require.True(t, sig.Test(1))
	require.True(t, sig.Test(3))
	require.False(t, sig.Test(0))
	require.False(t, sig.Test(2))
	require.Equal(t, 2, sig.PopCount())
	require.Equal(t, []int{1, 3}, sig.Columns())
}

func TestSignatureFromColumns(t *testing.T) {
	sig := SignatureFromColumns(0, 2)

	require.Equal(t, []int{0, 2}, sig.Columns())
	require.Equal(t, 2, sig.PopCount())
}

func TestIndexSignature_Equals(t *testing.T) {
	a := SignatureFromColumns(0, 1)
	b := SignatureFromColumns(1, 0)
	c := SignatureFromColumns(1)

	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
}

func TestIndexSignature_EmptyColumns(t *testing.T) {
	sig := NewIndexSignature(3)
	require.Equal(t, 0, sig.PopCount())
	require.Empty(t, sig.Columns())
}
