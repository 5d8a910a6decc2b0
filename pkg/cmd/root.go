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
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is filled when building with make, but *not* when installing via
// "go install".
var version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesise a standalone native program from a RAM translation unit.",
	Long:  "synth translates a relational-algebra-machine program into a single host-language source file.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("synth ")

			if version != "" {
				fmt.Printf("%s", version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:errcheck
func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("debug-report", "", "path for a debug report (stored in the config; no report is written)")
	rootCmd.PersistentFlags().String("profile", "", "write emitted-program profile events to this path; also enables profiling counters")
	rootCmd.PersistentFlags().String("provenance", "", "provenance mode: explain, subtreeHeights or explore")
	rootCmd.PersistentFlags().Bool("live-profile", false, "enable the emitted program's interactive TUI profiler")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "thread count the emitted program sets on start-up (0: runtime default)")
}
