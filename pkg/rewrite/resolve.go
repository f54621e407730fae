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
	"cmp"
	"slices"
)

// potentialMatch is a discovered occurrence with its replacement resolved.
// The id is its position in discovery order.
type potentialMatch struct {
	id          int
	rule        int
	start, end  int // end exclusive; start == end is an insertion
	original    string
	replacement string
}

func (m potentialMatch) zeroWidth() bool {
	return m.start == m.end
}

// cell is the per-index state; one contiguous slice holds all of them
type cell struct {
	ignored    bool
	claim      int // claiming match id + 1, zero when unclaimed
	claimStart bool
	insert     string
}

// 📋 plan is the resolver's output, consumed once by render
type plan struct {
	cells    []cell
	matches  []potentialMatch
	trailing string
	applied  []int // match ids in the order they were accepted
}

// resolve marks ignored indices, threads insertions through their own
// channel and lets non-zero-width matches claim spans greedily by
// (start asc, end desc). A match either claims its full span or nothing.
func resolve(n int, matches []potentialMatch, ignore []Range, report func(Diagnostic)) *plan {
	p := &plan{
		cells:   make([]cell, n),
		matches: matches,
	}

	for _, r := range mergeRanges(ignore) {
		for i := max(r.Start, 0); i <= min(r.End, n-1); i++ {
			p.cells[i].ignored = true
		}
	}

	var spans []int
	for _, m := range matches {
		if !m.zeroWidth() {
			spans = append(spans, m.id)
			continue
		}

		switch t := m.start; {
		case t >= 0 && t < n && !p.cells[t].ignored:
			p.cells[t].insert += m.replacement
			p.applied = append(p.applied, m.id)
		case t == n:
			p.trailing += m.replacement
			p.applied = append(p.applied, m.id)
		default:
			report(Diagnostic{Kind: DiagnosticDroppedInsertion, Rule: m.rule, Start: t, End: t - 1})
		}
	}

	slices.SortStableFunc(spans, func(a, b int) int {
		if c := cmp.Compare(matches[a].start, matches[b].start); c != 0 {
			return c
		}
		return cmp.Compare(matches[b].end, matches[a].end)
	})

	for _, id := range spans {
		m := matches[id]
		if kind, ok := p.claimable(m); !ok {
			report(Diagnostic{Kind: kind, Rule: m.rule, Start: m.start, End: m.end - 1})
			continue
		}
		for i := m.start; i < m.end; i++ {
			p.cells[i].claim = id + 1
		}
		p.cells[m.start].claimStart = true
		p.applied = append(p.applied, id)
	}

	// an insertion queued inside a claimed span is never rendered
	p.applied = slices.DeleteFunc(p.applied, func(id int) bool {
		m := matches[id]
		if !m.zeroWidth() || m.start >= n {
			return false
		}
		if c := p.cells[m.start]; c.claim == 0 || c.claimStart {
			return false
		}
		report(Diagnostic{Kind: DiagnosticShadowedInsertion, Rule: m.rule, Start: m.start, End: m.start - 1})
		return true
	})

	return p
}

// claimable checks every index of the span before anything is claimed.
func (p *plan) claimable(m potentialMatch) (DiagnosticKind, bool) {
	if m.start < 0 || m.end > len(p.cells) {
		return DiagnosticOverlap, false
	}
	for i := m.start; i < m.end; i++ {
		if p.cells[i].ignored {
			return DiagnosticIgnored, false
		}
		if p.cells[i].claim != 0 {
			return DiagnosticOverlap, false
		}
	}
	return "", true
}
