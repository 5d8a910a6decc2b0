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
	"strings"

	"github.com/spf13/cobra"

	"github.com/lattice-db/synthesiser/pkg/config"
	"github.com/lattice-db/synthesiser/pkg/ram"
	"github.com/lattice-db/synthesiser/pkg/ramsexp"
	"github.com/lattice-db/synthesiser/pkg/sexp"
)

// GetFlag reads an expected boolean flag, or exits if the flag is missing
// (a programming error, since every flag read here is registered in init).
func GetFlag(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// GetString reads an expected string flag.
func GetString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// GetInt reads an expected int flag.
func GetInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// configFromFlags builds a config.Config from the persistent flags every
// subcommand shares.
func configFromFlags(cmd *cobra.Command, sourceFileName string) config.Config {
	return config.Config{
		DebugReport:    GetString(cmd, "debug-report"),
		Verbose:        GetFlag(cmd, "verbose"),
		Profile:        GetString(cmd, "profile"),
		Provenance:     config.Provenance(GetString(cmd, "provenance")),
		LiveProfile:    GetFlag(cmd, "live-profile"),
		Jobs:           GetInt(cmd, "jobs"),
		Version:        version,
		SourceFileName: sourceFileName,
	}
}

// readRAMFixture reads and parses a RAM fixture file, based on its
// extension: ".sexp" fixtures go through pkg/ramsexp, anything else is
// rejected since there is currently no other supported front end.
func readRAMFixture(filename string) (*ram.Program, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(filename, ".sexp") {
		return nil, fmt.Errorf("synth: unsupported RAM fixture extension for %q (expected .sexp)", filename)
	}

	prog, err := ramsexp.Parse(string(bytes))
	if err != nil {
		if se, ok := err.(*sexp.SyntaxError); ok {
			span := se.Span()
			printSyntaxError(filename, se.Message(), span.Start(), span.End(), string(bytes))
		}

		return nil, err
	}

	return prog, nil
}

// printSyntaxError prints a syntax error with a caret pointing at the
// offending span, mirroring how a compiler front-end reports a parse
// failure against the original source text.
func printSyntaxError(filename, msg string, start, end int, text string) {
	line, offset, num := findEnclosingLine(start, text)

	fmt.Printf("%s:%d: %s\n", filename, num, msg)
	fmt.Println(line)
	fmt.Print(strings.Repeat(" ", start-offset))
	fmt.Println(strings.Repeat("^", max(1, end-start)))
}

func findEnclosingLine(index int, text string) (string, int, int) {
	num := 1
	start := 0

	if index >= len(text) {
		index = len(text) - 1
	}

	for i := 0; i < len(text); i++ {
		if i == index {
			end := findEndOfLine(index, text)
			return text[start:end], start, num
		} else if text[i] == '\n' {
			num++
			start = i + 1
		}
	}

	return "", 0, num
}

func findEndOfLine(index int, text string) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}
