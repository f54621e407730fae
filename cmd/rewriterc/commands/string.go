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

package commands

import (
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// patternList collects --find and --regex values in the order they were given
type patternList struct {
	patterns *[]rewrite.Pattern
	regex    bool
}

func (p patternList) String() string {
	parts := make([]string, 0, len(*p.patterns))
	for _, pat := range *p.patterns {
		parts = append(parts, pat.String())
	}
	return strings.Join(parts, ",")
}

func (p patternList) Set(v string) error {
	if p.regex {
		*p.patterns = append(*p.patterns, rewrite.Pattern{Text: v, Flavor: rewrite.FlavorECMAScript})
	} else {
		*p.patterns = append(*p.patterns, rewrite.Literal(v))
	}
	return nil
}

func (p patternList) Type() string {
	if p.regex {
		return "regex"
	}
	return "text"
}

// parseRange parses "start:end" (inclusive) into a range
func parseRange(s string) (rewrite.Range, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return rewrite.Range{}, errors.Errorf("range %q: want start:end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return rewrite.Range{}, errors.Errorf("range %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return rewrite.Range{}, errors.Errorf("range %q: %w", s, err)
	}
	return rewrite.Range{Start: start, End: end}, nil
}

// NewStringCmd creates the string command
func NewStringCmd(o *opts.RootOpts) *cobra.Command {
	var (
		patterns []rewrite.Pattern
		replaces []string
		ignore   []string
		protect  []string
		flavor   string
		flags    string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "string [text...]",
		Short: "Rewrite a string from the arguments or stdin",
		Long: `String applies ad-hoc rules to a single input and prints the result.
Each --find or --regex is paired with the --replace at the same position; a
pattern without a matching --replace is skipped. The input is the arguments
joined by spaces or, without arguments, everything read from stdin.`,
		Example: `  rewriterc string --find cat --replace dog "the cat sat"
  echo "2025-01-31" | rewriterc string --regex '(\d+)-(\d+)-(\d+)' --replace '$3/$2/$1'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			fl, err := rewrite.ParseFlavor(flavor)
			if err != nil {
				return err
			}

			rules := make([]rewrite.Rule, 0, len(patterns))
			for i, p := range patterns {
				if p.IsRegex() {
					p.Flavor = fl
					p.Flags = flags
				}
				rule := rewrite.Rule{Pattern: p}
				if i < len(replaces) {
					rule.Replacement = &replaces[i]
				}
				rules = append(rules, rule)
			}

			var ranges []rewrite.Range
			for _, s := range ignore {
				r, err := parseRange(s)
				if err != nil {
					return err
				}
				ranges = append(ranges, r)
			}

			// fail before consuming stdin
			if strict {
				if err := text.ValidateRules(rules, ranges); err != nil {
					return errors.Errorf("validating rules: %w", err)
				}
			}

			protected := make([]rewrite.Pattern, 0, len(protect))
			for _, expr := range protect {
				protected = append(protected, rewrite.Pattern{Text: expr, Flags: flags, Flavor: fl})
			}

			var input io.Reader = cmd.InOrStdin()
			if len(args) > 0 {
				input = strings.NewReader(strings.Join(args, " "))
			}

			replacer := text.NewReplacer(
				rewrite.New(rewrite.WithStrict(strict)),
				text.WithIgnore(ranges...),
				text.WithProtect(protected...),
			)
			res, err := replacer.ReplaceText(ctx, input, rules)
			if err != nil {
				return err
			}
			for _, d := range res.Diagnostics {
				zerolog.Ctx(ctx).Debug().Stringer("diagnostic", d).Msg("rewrite diagnostic")
			}

			_, err = cmd.OutOrStdout().Write(res.ModifiedContent)
			return err
		},
	}

	cmd.Flags().VarP(patternList{patterns: &patterns}, "find", "f", "literal text to replace (repeatable)")
	cmd.Flags().VarP(patternList{patterns: &patterns, regex: true}, "regex", "e", "regular expression to replace (repeatable)")
	cmd.Flags().StringArrayVarP(&replaces, "replace", "r", nil, "replacement for the pattern at the same position (repeatable)")
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, "inclusive start:end range to leave untouched (repeatable)")
	cmd.Flags().StringArrayVar(&protect, "protect", nil, "regular expression whose matches are left untouched (repeatable)")
	cmd.Flags().StringVar(&flavor, "flavor", "", "regex flavor: ecmascript (default) or re2")
	cmd.Flags().StringVar(&flags, "flags", "", "regex flags: any of g, i, m, s")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on invalid patterns and missing replacements")

	return cmd
}
