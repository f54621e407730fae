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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrInvalidPattern     = errors.Base("invalid pattern")
	ErrMissingReplacement = errors.Base("missing replacement")
	ErrMatch              = errors.Base("match failed")
)

// 🩺 DiagnosticKind names one lenient outcome of a rewrite
type DiagnosticKind string

const (
	DiagnosticInvalidPattern     DiagnosticKind = "invalid_pattern"
	DiagnosticMissingReplacement DiagnosticKind = "missing_replacement"
	DiagnosticMatchError         DiagnosticKind = "match_error"
	DiagnosticDroppedInsertion   DiagnosticKind = "dropped_insertion"
	DiagnosticShadowedInsertion  DiagnosticKind = "shadowed_insertion"
	DiagnosticOverlap            DiagnosticKind = "overlap"
	DiagnosticIgnored            DiagnosticKind = "ignored"
)

// RuleLevel reports whether the kind disables a whole rule. Only these fail a
// strict rewrite.
func (k DiagnosticKind) RuleLevel() bool {
	switch k {
	case DiagnosticInvalidPattern, DiagnosticMissingReplacement, DiagnosticMatchError:
		return true
	default:
		return false
	}
}

// 🩺 Diagnostic records a skipped rule or a match that did not make it into
// the output. Start and End are inclusive; rule-level diagnostics leave them
// zero.
type Diagnostic struct {
	Kind  DiagnosticKind
	Rule  int
	Start int
	End   int
	Err   error
}

func (d Diagnostic) String() string {
	if d.Kind.RuleLevel() {
		return fmt.Sprintf("rule %d: %s: %v", d.Rule, d.Kind, d.Err)
	}
	return fmt.Sprintf("rule %d: %s at [%d, %d]", d.Rule, d.Kind, d.Start, d.End)
}

func (d Diagnostic) sentinel() error {
	switch d.Kind {
	case DiagnosticInvalidPattern:
		return ErrInvalidPattern
	case DiagnosticMissingReplacement:
		return ErrMissingReplacement
	default:
		return ErrMatch
	}
}

// strictError joins every rule-level diagnostic into one error.
func strictError(diags []Diagnostic) error {
	var errs []error
	for _, d := range diags {
		if !d.Kind.RuleLevel() {
			continue
		}
		if d.Err != nil && d.Kind != DiagnosticMissingReplacement {
			errs = append(errs, errors.Errorf("rule %d: %w: %s", d.Rule, d.sentinel(), d.Err.Error()))
			continue
		}
		errs = append(errs, errors.Errorf("rule %d: %w", d.Rule, d.sentinel()))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
