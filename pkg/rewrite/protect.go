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

// ProtectedRanges finds every non-empty occurrence of patterns in source and
// returns them as ignore ranges, unmerged and in discovery order. Patterns
// that fail to compile or match are skipped.
func ProtectedRanges(source string, patterns []Pattern) []Range {
	if source == "" || len(patterns) == 0 {
		return nil
	}

	src := newSource(source)
	var ranges []Range
	for _, p := range patterns {
		m, err := p.compile(0)
		if err != nil {
			continue
		}
		var found []Range
		err = m.find(src, func(occ occurrence) {
			if occ.end > occ.start {
				found = append(found, Range{Start: occ.start, End: occ.end - 1})
			}
		})
		if err != nil {
			continue
		}
		ranges = append(ranges, found...)
	}
	return ranges
}
