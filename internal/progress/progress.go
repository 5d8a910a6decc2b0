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

// Package progress prints a single, self-overwriting status line while a
// long-running command executes, falling back to one line per update when
// stdout is not an interactive terminal (a pipe, a log file, CI output).
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Reporter drives one status line for the duration of a single command.
type Reporter struct {
	out        io.Writer
	fd         int
	isTerminal bool
	width      int
	lastLen    int
	start      time.Time
}

// New returns a Reporter writing to os.Stdout, detecting at construction
// time whether stdout is an interactive terminal.
func New() *Reporter {
	fd := int(os.Stdout.Fd())
	r := &Reporter{out: os.Stdout, fd: fd, start: time.Now()}

	if term.IsTerminal(fd) {
		r.isTerminal = true

		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			r.width = w
		} else {
			r.width = 80
		}
	}

	return r
}

// Update reports the current status line. On a terminal it overwrites the
// previous line in place; otherwise it appends a new line, since a
// non-terminal consumer has no notion of "in place".
func (r *Reporter) Update(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	if !r.isTerminal {
		fmt.Fprintln(r.out, msg)
		return
	}

	if r.width > 0 && len(msg) > r.width {
		msg = msg[:r.width]
	}

	fmt.Fprint(r.out, "\r", msg, strings.Repeat(" ", max(0, r.lastLen-len(msg))))
	r.lastLen = len(msg)
}

// Done clears the status line (on a terminal) and reports the elapsed time.
func (r *Reporter) Done(format string, args ...any) {
	if r.isTerminal {
		fmt.Fprint(r.out, "\r", strings.Repeat(" ", r.lastLen), "\r")
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(r.out, "%s (%s)\n", msg, time.Since(r.start).Round(time.Millisecond))
}
