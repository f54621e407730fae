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
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

func TestReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []rewrite.Rule
		opts         []ReplacerOption
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:         "simple_replacement",
			content:      "Hello World",
			rules:        []rewrite.Rule{rewrite.NewRule(rewrite.Literal("World"), "Universe")},
			want:         "Hello Universe",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:         "multiple_replacements",
			content:      "Hello World World",
			rules:        []rewrite.Rule{rewrite.NewRule(rewrite.Literal("World"), "Universe")},
			want:         "Hello Universe Universe",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "rules_see_original_text",
			content: "ab",
			rules: []rewrite.Rule{
				rewrite.NewRule(rewrite.Literal("a"), "b"),
				rewrite.NewRule(rewrite.Literal("b"), "c"),
			},
			want:         "bc",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:      "no_matches",
			content:   "Hello World",
			rules:     []rewrite.Rule{rewrite.NewRule(rewrite.Literal("xyz"), "abc")},
			want:      "Hello World",
			wantCount: 0,
		},
		{
			name:      "identity_replacement_is_not_a_modification",
			content:   "same",
			rules:     []rewrite.Rule{rewrite.NewRule(rewrite.Literal("same"), "same")},
			want:      "same",
			wantCount: 1,
		},
		{
			name:         "protected_region",
			content:      `x "x" x`,
			rules:        []rewrite.Rule{rewrite.NewRule(rewrite.Literal("x"), "y")},
			opts:         []ReplacerOption{WithProtect(rewrite.Regex(`"[^"]*"`, ""))},
			want:         `y "x" y`,
			wantCount:    2,
			wantModified: true,
		},
		{
			name:         "ignore_range",
			content:      "aaa",
			rules:        []rewrite.Rule{rewrite.NewRule(rewrite.Literal("a"), "b")},
			opts:         []ReplacerOption{WithIgnore(rewrite.Range{Start: 0, End: 0})},
			want:         "abb",
			wantCount:    2,
			wantModified: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReplacer(nil, tt.opts...)
			result, err := r.ReplaceText(context.Background(), strings.NewReader(tt.content), tt.rules)
			require.NoError(t, err)

			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestReplacer_ReadError(t *testing.T) {
	r := NewReplacer(nil)
	_, err := r.ReplaceText(context.Background(), iotest.ErrReader(errors.New("broken pipe")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestReplacer_Strict(t *testing.T) {
	r := NewReplacer(rewrite.New(rewrite.WithStrict(true)))
	_, err := r.ReplaceText(context.Background(), strings.NewReader("abc"), []rewrite.Rule{
		{Pattern: rewrite.Literal("a")},
	})
	assert.ErrorIs(t, err, rewrite.ErrMissingReplacement)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []rewrite.Rule
		ranges  []rewrite.Range
		wantErr []error
	}{
		{
			name:  "valid",
			rules: []rewrite.Rule{rewrite.NewRule(rewrite.Literal("foo"), "bar"), rewrite.NewRule(rewrite.Regex(`\d+`, "g"), "#")},
		},
		{
			name:    "missing_replacement",
			rules:   []rewrite.Rule{{Pattern: rewrite.Literal("foo")}},
			wantErr: []error{rewrite.ErrMissingReplacement},
		},
		{
			name:    "invalid_regex",
			rules:   []rewrite.Rule{rewrite.NewRule(rewrite.Regex("(", ""), "x")},
			wantErr: []error{rewrite.ErrInvalidPattern},
		},
		{
			name:    "invalid_flag",
			rules:   []rewrite.Rule{rewrite.NewRule(rewrite.RE2("a", "x"), "b")},
			wantErr: []error{rewrite.ErrInvalidPattern},
		},
		{
			name: "collects_every_problem",
			rules: []rewrite.Rule{
				{Pattern: rewrite.Literal("foo")},
				rewrite.NewRule(rewrite.Regex("[", ""), "x"),
			},
			wantErr: []error{rewrite.ErrMissingReplacement, rewrite.ErrInvalidPattern},
		},
		{
			name:    "bad_range",
			rules:   []rewrite.Rule{rewrite.NewRule(rewrite.Literal("foo"), "bar")},
			ranges:  []rewrite.Range{{Start: 3, End: 1}},
			wantErr: []error{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules, tt.ranges)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}
