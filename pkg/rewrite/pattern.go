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
	"slices"
	"strings"
	"time"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// 🧬 Flavor selects how a pattern is interpreted
type Flavor string

const (
	FlavorLiteral    Flavor = ""           // verbatim text
	FlavorECMAScript Flavor = "ecmascript" // regexp2 in ECMAScript mode
	FlavorRE2        Flavor = "re2"        // coregex, linear time
)

// ParseFlavor maps a config value onto a regex flavor. An empty value selects
// ECMAScript.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ecmascript", "js":
		return FlavorECMAScript, nil
	case "re2", "go":
		return FlavorRE2, nil
	default:
		return "", errors.Errorf("unknown regex flavor %q", s)
	}
}

// 🔍 Pattern is either literal text or a regular expression with flags
type Pattern struct {
	Text   string
	Flags  string
	Flavor Flavor
}

// Literal returns a pattern that matches s verbatim.
func Literal(s string) Pattern {
	return Pattern{Text: s}
}

// Regex returns an ECMAScript pattern. Flags may contain g, i, m and s.
func Regex(expr, flags string) Pattern {
	return Pattern{Text: expr, Flags: flags, Flavor: FlavorECMAScript}
}

// RE2 returns a pattern evaluated by the linear-time RE2 engine.
func RE2(expr, flags string) Pattern {
	return Pattern{Text: expr, Flags: flags, Flavor: FlavorRE2}
}

// IsRegex reports whether the pattern is a regular expression.
func (p Pattern) IsRegex() bool {
	return p.Flavor != FlavorLiteral
}

// Validate reports whether the pattern compiles.
func (p Pattern) Validate() error {
	_, err := p.compile(0)
	return err
}

func (p Pattern) String() string {
	if !p.IsRegex() {
		return fmt.Sprintf("%q", p.Text)
	}
	return fmt.Sprintf("/%s/%s (%s)", p.Text, p.Flags, p.Flavor)
}

// 🎯 occurrence is one raw match in index units, end exclusive
type occurrence struct {
	start, end int
	groups     []span // capture groups 1..n, nil for literals
}

type span struct {
	start, end int
	ok         bool
}

// matcher finds every occurrence of one compiled pattern
type matcher interface {
	find(src *source, emit func(occurrence)) error
}

func (p Pattern) compile(timeout time.Duration) (matcher, error) {
	switch p.Flavor {
	case FlavorLiteral:
		return literalMatcher{needle: []rune(p.Text)}, nil
	case FlavorECMAScript:
		opts := regexp2.RegexOptions(regexp2.ECMAScript)
		for _, f := range p.Flags {
			switch f {
			case 'g':
			case 'i':
				opts |= regexp2.IgnoreCase
			case 'm':
				opts |= regexp2.Multiline
			case 's':
				opts |= regexp2.Singleline
			default:
				return nil, errors.Errorf("unsupported flag %q", f)
			}
		}
		re, err := regexp2.Compile(p.Text, opts)
		if err != nil {
			return nil, errors.Errorf("compiling %s: %w", p, err)
		}
		if timeout > 0 {
			re.MatchTimeout = timeout
		}
		return ecmaMatcher{re: re, order: captureOrder(p.Text, re)}, nil
	case FlavorRE2:
		var inline strings.Builder
		for _, f := range p.Flags {
			switch f {
			case 'g':
			case 'i', 'm', 's':
				inline.WriteRune(f)
			default:
				return nil, errors.Errorf("unsupported flag %q", f)
			}
		}
		expr := p.Text
		if inline.Len() > 0 {
			expr = "(?" + inline.String() + ")" + expr
		}
		re, err := coregex.Compile(expr)
		if err != nil {
			return nil, errors.Errorf("compiling %s: %w", p, err)
		}
		return re2Matcher{re: re}, nil
	default:
		return nil, errors.Errorf("unknown flavor %q", p.Flavor)
	}
}

type literalMatcher struct {
	needle []rune
}

// find reports overlapping occurrences: each search resumes one index past
// the previous start.
func (m literalMatcher) find(src *source, emit func(occurrence)) error {
	n, k := src.len(), len(m.needle)
	for from := 0; from+k <= n; {
		i := indexRunes(src.runes[from:], m.needle)
		if i < 0 {
			break
		}
		start := from + i
		emit(occurrence{start: start, end: start + k})
		from = start + 1
	}
	return nil
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	first := needle[0]
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i] != first {
			continue
		}
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

type ecmaMatcher struct {
	re *regexp2.Regexp
	// order lists regexp2 group numbers by where each group opens in the
	// pattern; regexp2 numbers named groups after all unnamed ones.
	order []int
}

func (m ecmaMatcher) find(src *source, emit func(occurrence)) error {
	n := src.len()
	for pos := 0; pos <= n; {
		match, err := m.re.FindRunesMatchStartingAt(src.runes, pos)
		if err != nil {
			return errors.Errorf("matching at %d: %w", pos, err)
		}
		if match == nil {
			break
		}

		occ := occurrence{start: match.Index, end: match.Index + match.Length}
		for _, num := range m.order {
			g := match.GroupByNumber(num)
			if g == nil || len(g.Captures) == 0 {
				occ.groups = append(occ.groups, span{})
				continue
			}
			occ.groups = append(occ.groups, span{start: g.Index, end: g.Index + g.Length, ok: true})
		}
		emit(occ)

		// zero-width matches must still move the cursor
		pos = occ.end
		if occ.start == occ.end {
			pos++
		}
	}
	return nil
}

// captureOrder numbers capturing groups left to right by their opening
// parenthesis and maps each one to the number regexp2 gave it. When the scan
// disagrees with the compiled group count it falls back to regexp2's order.
func captureOrder(expr string, re *regexp2.Regexp) []int {
	total := len(re.GetGroupNumbers()) - 1
	fallback := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		fallback = append(fallback, i)
	}

	var order []int
	seen := map[int]bool{}
	unnamed := 0
	runes := []rune(expr)
	inClass := false
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			var num int
			if name, ok := groupName(runes[i+1:]); ok {
				num = re.GroupNumberFromName(name)
			} else if i+1 >= len(runes) || runes[i+1] != '?' {
				unnamed++
				num = unnamed
			} else {
				continue
			}
			if num <= 0 || seen[num] {
				return fallback
			}
			seen[num] = true
			order = append(order, num)
		}
	}
	if len(order) != total {
		return fallback
	}
	return order
}

// groupName reads the name of a named group from the text that follows its
// opening parenthesis: ?<name>, ?'name' or ?P<name>.
func groupName(rest []rune) (string, bool) {
	if len(rest) < 3 || rest[0] != '?' {
		return "", false
	}
	rest = rest[1:]
	if rest[0] == 'P' {
		rest = rest[1:]
	}
	var closer rune
	switch rest[0] {
	case '<':
		closer = '>'
	case '\'':
		closer = '\''
	default:
		return "", false
	}
	rest = rest[1:]
	if len(rest) == 0 || rest[0] == '=' || rest[0] == '!' {
		return "", false
	}
	end := slices.Index(rest, closer)
	if end <= 0 {
		return "", false
	}
	return string(rest[:end]), true
}

type re2Matcher struct {
	re *coregex.Regex
}

func (m re2Matcher) find(src *source, emit func(occurrence)) error {
	for _, loc := range m.re.FindAllStringSubmatchIndex(src.text, -1) {
		occ := occurrence{start: src.index(loc[0]), end: src.index(loc[1])}
		for g := 2; g+1 < len(loc); g += 2 {
			if loc[g] < 0 {
				occ.groups = append(occ.groups, span{})
				continue
			}
			occ.groups = append(occ.groups, span{start: src.index(loc[g]), end: src.index(loc[g+1]), ok: true})
		}
		emit(occ)
	}
	return nil
}
