// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rewrite

import "strings"

// render walks the source once. Insertions queued on an index are emitted
// before it; a claimed span emits its replacement at its first index and
// skips the rest, including anything queued inside it.
func render(src *source, p *plan) string {
	var b strings.Builder
	b.Grow(len(src.text))

	for i := 0; i < len(p.cells); {
		c := &p.cells[i]
		b.WriteString(c.insert)

		switch {
		case c.claimStart:
			m := p.matches[c.claim-1]
			b.WriteString(m.replacement)
			i = m.end
		case c.claim == 0:
			b.WriteString(src.slice(i, i+1))
			i++
		default:
			i++
		}
	}

	b.WriteString(p.trailing)
	return b.String()
}
