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
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📜 Rule pairs a pattern with a replacement template. A nil Replacement
// marks the rule as incomplete and it is skipped.
type Rule struct {
	Pattern     Pattern
	Replacement *string
}

// NewRule builds a rule with a replacement.
func NewRule(p Pattern, replacement string) Rule {
	return Rule{Pattern: p, Replacement: &replacement}
}

// ✅ Applied describes one match that made it into the output. Insertions
// have End == Start-1.
type Applied struct {
	Rule        int
	Start       int
	End         int
	Original    string
	Replacement string
}

// Insertion reports whether the match was zero-width.
func (a Applied) Insertion() bool {
	return a.End < a.Start
}

// 📦 Result is the outcome of one rewrite
type Result struct {
	Output      string
	Applied     []Applied
	Discarded   int // non-zero-width matches rejected by overlap or ignore ranges
	Inserted    int
	Dropped     int // insertions on an ignored index or inside a replaced span
	Diagnostics []Diagnostic
}

// Modified reports whether any match was applied.
func (r *Result) Modified() bool {
	return len(r.Applied) > 0
}

func (r *Result) report(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Kind {
	case DiagnosticOverlap, DiagnosticIgnored:
		r.Discarded++
	case DiagnosticDroppedInsertion, DiagnosticShadowedInsertion:
		r.Dropped++
	}
}

// ⚙️ Engine runs rewrites with a fixed set of options. The zero value is a
// lenient engine without match timeouts. An Engine holds no per-call state
// and is safe for concurrent use.
type Engine struct {
	strict  bool
	timeout time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithStrict makes Rewrite return an error when a rule is skipped.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithMatchTimeout bounds the time an ECMAScript pattern may spend on one
// match attempt. A timed out rule is skipped.
func WithMatchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// 🏭 New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rewrite applies rules to source in a single pass, leaving every index
// covered by ignore untouched. It never fails: problem rules are skipped and
// conflicting matches are discarded.
func Rewrite(source string, rules []Rule, ignore []Range) string {
	var e Engine
	res, _ := e.Rewrite(context.Background(), source, rules, ignore)
	return res.Output
}

// Rewrite is the context-aware form of the package level Rewrite. It returns
// the result together with every diagnostic. The error is non-nil when ctx is
// done, or in strict mode when a rule was skipped; the result is still
// populated in the strict case.
func (e *Engine) Rewrite(ctx context.Context, source string, rules []Rule, ignore []Range) (*Result, error) {
	res := &Result{Output: source}
	if source == "" || len(rules) == 0 {
		return res, nil
	}

	src := newSource(source)
	matches, err := e.collect(ctx, src, rules, res)
	if err != nil {
		return nil, err
	}

	p := resolve(src.len(), matches, ignore, res.report)
	res.Output = render(src, p)

	for _, id := range p.applied {
		m := p.matches[id]
		if m.zeroWidth() {
			res.Inserted++
		}
		res.Applied = append(res.Applied, Applied{
			Rule:        m.rule,
			Start:       m.start,
			End:         m.end - 1,
			Original:    m.original,
			Replacement: m.replacement,
		})
	}

	slices.SortStableFunc(res.Applied, func(a, b Applied) int {
		return cmp.Compare(a.Start, b.Start)
	})

	zerolog.Ctx(ctx).Trace().
		Int("rules", len(rules)).
		Int("matches", len(matches)).
		Int("applied", len(res.Applied)).
		Int("discarded", res.Discarded).
		Msg("rewrite complete")

	if e.strict {
		if err := strictError(res.Diagnostics); err != nil {
			return res, errors.Errorf("strict rewrite: %w", err)
		}
	}

	return res, nil
}

// collect scans every rule against the original source in rule order.
func (e *Engine) collect(ctx context.Context, src *source, rules []Rule, res *Result) ([]potentialMatch, error) {
	logger := zerolog.Ctx(ctx)

	var matches []potentialMatch
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("collecting matches: %w", err)
		}

		if rule.Replacement == nil {
			logger.Debug().Int("rule", i).Stringer("pattern", rule.Pattern).Msg("skipping rule without replacement")
			res.report(Diagnostic{Kind: DiagnosticMissingReplacement, Rule: i})
			continue
		}

		m, err := rule.Pattern.compile(e.timeout)
		if err != nil {
			logger.Debug().Int("rule", i).Err(err).Msg("skipping rule with invalid pattern")
			res.report(Diagnostic{Kind: DiagnosticInvalidPattern, Rule: i, Err: err})
			continue
		}

		// a rule that fails midway contributes nothing
		var found []potentialMatch
		err = m.find(src, func(occ occurrence) {
			found = append(found, potentialMatch{
				id:          len(matches) + len(found),
				rule:        i,
				start:       occ.start,
				end:         occ.end,
				original:    src.slice(occ.start, occ.end),
				replacement: expand(*rule.Replacement, src, occ),
			})
		})
		if err != nil {
			logger.Debug().Int("rule", i).Err(err).Msg("skipping rule after match error")
			res.report(Diagnostic{Kind: DiagnosticMatchError, Rule: i, Err: err})
			continue
		}

		matches = append(matches, found...)
	}
	return matches, nil
}
