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

package text

import (
	"context"
	"io"

	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// ReplacementResult holds the outcome of one ReplaceText call
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	WasModified      bool
	ReplacementCount int
	Diagnostics      []rewrite.Diagnostic
}

// Replacer runs rewrite rules over content read from an io.Reader
type Replacer struct {
	engine  *rewrite.Engine
	protect []rewrite.Pattern
	ignore  []rewrite.Range
}

// ReplacerOption configures a Replacer
type ReplacerOption func(*Replacer)

// WithProtect leaves every match of the given patterns untouched.
func WithProtect(patterns ...rewrite.Pattern) ReplacerOption {
	return func(r *Replacer) {
		r.protect = append(r.protect, patterns...)
	}
}

// WithIgnore leaves the given inclusive ranges untouched.
func WithIgnore(ranges ...rewrite.Range) ReplacerOption {
	return func(r *Replacer) {
		r.ignore = append(r.ignore, ranges...)
	}
}

// NewReplacer creates a Replacer. A nil engine behaves like rewrite.New().
func NewReplacer(engine *rewrite.Engine, opts ...ReplacerOption) *Replacer {
	if engine == nil {
		engine = rewrite.New()
	}
	r := &Replacer{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReplaceText reads all of content and applies rules to it in one pass.
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader, rules []rewrite.Rule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	source := string(originalContent)
	ignore := append(r.ignore[:len(r.ignore):len(r.ignore)], rewrite.ProtectedRanges(source, r.protect)...)

	res, err := r.engine.Rewrite(ctx, source, rules, ignore)
	if err != nil {
		return nil, errors.Errorf("rewriting content: %w", err)
	}

	return &ReplacementResult{
		OriginalContent:  originalContent,
		ModifiedContent:  []byte(res.Output),
		WasModified:      res.Output != source,
		ReplacementCount: len(res.Applied),
		Diagnostics:      res.Diagnostics,
	}, nil
}

// ValidateRules checks that every rule has a replacement and a pattern that
// compiles. Ranges must be non-negative and ordered.
func ValidateRules(rules []rewrite.Rule, ranges []rewrite.Range) error {
	var errs []error
	for i, rule := range rules {
		if rule.Replacement == nil {
			errs = append(errs, errors.Errorf("rule %d: %w", i, rewrite.ErrMissingReplacement))
			continue
		}
		if err := rule.Pattern.Validate(); err != nil {
			errs = append(errs, errors.Errorf("rule %d: %w: %s", i, rewrite.ErrInvalidPattern, err))
		}
	}
	for i, rg := range ranges {
		if rg.Start < 0 || rg.End < rg.Start {
			errs = append(errs, errors.Errorf("range %d: invalid range [%d, %d]", i, rg.Start, rg.End))
		}
	}
	return errors.Join(errs...)
}
