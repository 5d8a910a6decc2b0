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
package ramsexp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-db/synthesiser/pkg/ram"
)

func TestParse_RelationsAndFlags(t *testing.T) {
	prog, err := Parse(`
		(program copy
		  (relation A 2 input)
		  (relation B 2 output)
		  (main (seq)))
	`)
	require.NoError(t, err)
	require.Equal(t, "copy", prog.Name)
	require.Len(t, prog.Relations, 2)

	a, ok := prog.Relation("A")
	require.True(t, ok)
	require.True(t, a.Input)
	require.Equal(t, 2, a.Arity)

	b, ok := prog.Relation("B")
	require.True(t, ok)
	require.True(t, b.Output)
}

func TestParse_ScanFilterProject(t *testing.T) {
	prog, err := Parse(`
		(program copy
		  (relation A 2 input)
		  (relation B 2 output)
		  (main
		    (query
		      (scan 0 A
		        (filter (!= (tup 0 0) (tup 0 1))
		          (project B (tup 0 0) (tup 0 1)))))))
	`)
	require.NoError(t, err)

	query, ok := prog.Main.(*ram.Query)
	require.True(t, ok)

	scan, ok := query.Root.(*ram.Scan)
	require.True(t, ok)
	require.Equal(t, 0, scan.TupleID)
	require.Equal(t, "A", scan.Relation.Name)

	filter, ok := scan.Nested.(*ram.Filter)
	require.True(t, ok)

	constraint, ok := filter.Condition.(*ram.Constraint)
	require.True(t, ok)
	require.Equal(t, ram.CNe, constraint.Op)

	project, ok := filter.Nested.(*ram.Project)
	require.True(t, ok)
	require.Equal(t, "B", project.Relation.Name)
	require.Len(t, project.Values, 2)
}

func TestParse_UndeclaredRelation(t *testing.T) {
	_, err := Parse(`
		(program bad
		  (main (query (scan 0 Missing none))))
	`)
	require.Error(t, err)
}

func TestParse_IndexScanWithUndefPattern(t *testing.T) {
	prog, err := Parse(`
		(program lookup
		  (relation A 2 input)
		  (relation B 1 output)
		  (main
		    (query
		      (indexscan 0 A (5 _)
		        (project B (tup 0 1))))))
	`)
	require.NoError(t, err)

	query := prog.Main.(*ram.Query)
	scan := query.Root.(*ram.IndexScan)
	require.Len(t, scan.Pattern, 2)
	require.True(t, ram.IsUndef(scan.Pattern[1]))

	sc, ok := scan.Pattern[0].(*ram.SignedConstant)
	require.True(t, ok)
	require.EqualValues(t, 5, sc.Value)
}
