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
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lattice-db/synthesiser/internal/progress"
	"github.com/lattice-db/synthesiser/pkg/analysis"
	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/synth"
	"github.com/lattice-db/synthesiser/pkg/util"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] ram_file",
	Short: "synthesise a standalone program from a RAM fixture.",
	Long:  "generate reads a RAM translation unit and emits a single host-language source file implementing it.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println("generate: expected exactly one RAM fixture file")
			os.Exit(1)
		}

		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		prog, err := readRAMFixture(args[0])
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		cfg := configFromFlags(cmd, args[0])

		reporter := progress.New()
		reporter.Update("synthesising %s (%d relations)", prog.Name, len(prog.Relations))

		idx := analysis.NewStatic(prog)
		perf := util.NewPerfStats()

		result, err := synth.New(idx, nil, cfg).Generate(prog)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}

		perf.Log("generate")

		reporter.Done("synthesis of %s complete: %d bytes", prog.Name, len(result.Source))

		if result.WithSharedLibrary {
			log.Debug("emitted translation unit requires linking against a user-defined-operator shared library")
		}

		if GetFlag(cmd, "verbose") {
			printIndexSummary(prog, idx)
		}

		output := GetString(cmd, "output")
		if output == "" {
			fmt.Print(result.Source)
			return
		}

		if err := os.WriteFile(output, []byte(result.Source), 0644); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
	},
}

// printIndexSummary prints a per-relation table of arity and the number of
// distinct search indexes idx decided the emitted relation type needs.
func printIndexSummary(prog *ram.Program, idx analysis.Index) {
	table := util.NewTablePrinter(3, uint(len(prog.Relations)+1))
	table.SetRow(0, "relation", "arity", "indexes")

	for i, rel := range prog.Relations {
		table.SetRow(uint(i+1), rel.Name, fmt.Sprintf("%d", rel.Arity), fmt.Sprintf("%d", len(idx.Indexes(rel))))
	}

	table.Print()
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("output", "o", "", "write the emitted translation unit here instead of stdout")
}
