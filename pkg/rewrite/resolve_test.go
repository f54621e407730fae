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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		want   []Range
	}{
		{
			name:   "empty",
			ranges: nil,
			want:   nil,
		},
		{
			name:   "single",
			ranges: []Range{{Start: 2, End: 4}},
			want:   []Range{{Start: 2, End: 4}},
		},
		{
			name:   "overlapping_and_adjacent_chain",
			ranges: []Range{{Start: 5, End: 7}, {Start: 1, End: 3}, {Start: 2, End: 4}, {Start: 9, End: 9}, {Start: 8, End: 8}},
			want:   []Range{{Start: 1, End: 9}},
		},
		{
			name:   "gap_of_one_index_kept",
			ranges: []Range{{Start: 3, End: 4}, {Start: 0, End: 1}},
			want:   []Range{{Start: 0, End: 1}, {Start: 3, End: 4}},
		},
		{
			name:   "contained",
			ranges: []Range{{Start: 0, End: 10}, {Start: 2, End: 3}},
			want:   []Range{{Start: 0, End: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]Range(nil), tt.ranges...)
			assert.Equal(t, tt.want, mergeRanges(tt.ranges))
			assert.Equal(t, input, tt.ranges, "input must not be reordered")
		})
	}
}

func TestResolve(t *testing.T) {
	src := newSource("aaa")
	matches := []potentialMatch{
		{id: 0, rule: 0, start: 0, end: 2, replacement: "b"},
		{id: 1, rule: 0, start: 1, end: 3, replacement: "b"},
		{id: 2, rule: 1, start: 3, end: 3, replacement: "!"},
	}

	var diags []Diagnostic
	p := resolve(src.len(), matches, nil, func(d Diagnostic) { diags = append(diags, d) })

	assert.Equal(t, []cell{
		{claim: 1, claimStart: true},
		{claim: 1},
		{},
	}, p.cells)
	assert.Equal(t, "!", p.trailing)
	assert.Equal(t, []int{2, 0}, p.applied)
	assert.Equal(t, []Diagnostic{{Kind: DiagnosticOverlap, Rule: 0, Start: 1, End: 2}}, diags)
	assert.Equal(t, "ba!", render(src, p))
}

func TestResolve_IgnoredSpan(t *testing.T) {
	matches := []potentialMatch{
		{id: 0, start: 0, end: 2, replacement: "x"},
		{id: 1, start: 1, end: 1, replacement: "-"},
	}

	var diags []Diagnostic
	p := resolve(3, matches, []Range{{Start: 1, End: 1}}, func(d Diagnostic) { diags = append(diags, d) })

	assert.True(t, p.cells[1].ignored)
	assert.Empty(t, p.applied)
	assert.Equal(t, []Diagnostic{
		{Kind: DiagnosticDroppedInsertion, Start: 1, End: 0},
		{Kind: DiagnosticIgnored, Start: 0, End: 1},
	}, diags)
}

func TestExpand(t *testing.T) {
	src := newSource("key=välue")
	occ := occurrence{
		start: 0,
		end:   9,
		groups: []span{
			{start: 0, end: 3, ok: true},
			{start: 4, end: 9, ok: true},
			{},
		},
	}

	assert.Equal(t, "välue:key", expand("$2:$1", src, occ))
	assert.Equal(t, "$3", expand("$3", src, occ))
	assert.Equal(t, "$4", expand("$4", src, occ))
	assert.Equal(t, "no tokens", expand("no tokens", src, occ))
}

func TestSourceIndex(t *testing.T) {
	src := newSource("aé\xffb")

	assert.Equal(t, 4, src.len())
	assert.Equal(t, []int{0, 1, 3, 4, 5}, src.offsets)
	assert.Equal(t, 2, src.index(3))
	assert.Equal(t, "é\xff", src.slice(1, 3))
}
