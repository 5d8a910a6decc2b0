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
package mint

import (
	"strconv"
	"strings"
)

// IndexTemplate renders a search signature as "<c0,c1,...>", the template
// argument list suffix-concatenated onto runtime calls like
// equalRange_<...>.  An empty mask renders as "<>".
func IndexTemplate(sig SearchSignature) string {
	cols := sig.Columns()

	var b strings.Builder

	b.WriteByte('<')

	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}

		b.WriteString(strconv.Itoa(c))
	}

	b.WriteByte('>')

	return b.String()
}
