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

// expand resolves the $-tokens of template against one occurrence in the
// original source. Literal occurrences carry no groups, so every $N token
// passes through for them.
func expand(template string, src *source, occ occurrence) string {
	if strings.IndexByte(template, '$') < 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '$' || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}

		switch next := template[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(src.slice(occ.start, occ.end))
			i++
		case next == '`':
			b.WriteString(src.slice(0, occ.start))
			i++
		case next == '\'':
			b.WriteString(src.slice(occ.end, src.len()))
			i++
		case isDigit(next):
			n, width := groupRef(template[i+1:], len(occ.groups))
			if n == 0 {
				b.WriteByte(c)
				continue
			}
			g := occ.groups[n-1]
			if g.ok {
				b.WriteString(src.slice(g.start, g.end))
			} else {
				b.WriteString(template[i : i+1+width])
			}
			i += width
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// groupRef parses the group number at the head of s, preferring two digits
// when that group exists. It returns zero when no group matches.
func groupRef(s string, count int) (n, width int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if nn := int(s[0]-'0')*10 + int(s[1]-'0'); nn >= 1 && nn <= count {
			return nn, 2
		}
	}
	if d := int(s[0] - '0'); d >= 1 && d <= count {
		return d, 1
	}
	return 0, 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
