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

import (
	"slices"
	"unicode/utf8"
)

// source is the immutable input with a code point index over its bytes
type source struct {
	text    string
	runes   []rune
	offsets []int // byte offset of every index, plus len(text)
}

func newSource(text string) *source {
	s := &source{
		text:    text,
		runes:   make([]rune, 0, len(text)),
		offsets: make([]int, 0, len(text)+1),
	}
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		s.runes = append(s.runes, r)
		s.offsets = append(s.offsets, i)
		i += w
	}
	s.offsets = append(s.offsets, len(text))
	return s
}

func (s *source) len() int {
	return len(s.runes)
}

// slice returns the original bytes of indices [start, end).
func (s *source) slice(start, end int) string {
	return s.text[s.offsets[start]:s.offsets[end]]
}

// index converts a byte offset on a code point boundary to an index.
func (s *source) index(byteOffset int) int {
	i, _ := slices.BinarySearch(s.offsets, byteOffset)
	return i
}
