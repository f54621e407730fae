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

/*
Package rewrite applies many (pattern, replacement) rules to a single string in
one pass.

# Pipeline

A rewrite runs four stages, each a pure function of its inputs:

 1. collect: every rule is scanned against the original source and each
    occurrence becomes a potential match with its replacement already
    expanded.
 2. merge: the caller's ignore ranges are sorted and folded into disjoint
    intervals (adjacent intervals merge too).
 3. resolve: zero-width matches are queued as insertions; the remaining
    matches are walked by (start ascending, end descending) and each one
    claims its whole span or is discarded.
 4. render: one left-to-right walk emits insertions, replacements and
    untouched characters.

# Indexing

Positions are counted in code points as decoded by unicode/utf8, so the index
space of a source s is exactly []rune(s). An invalid byte counts as one index
and is copied through byte for byte when it is not rewritten. Range values and
Applied spans are inclusive on both ends.

# Patterns

Literal patterns match verbatim and find overlapping occurrences. Regex
patterns come in two flavors: ECMAScript (regexp2, the default) and RE2
(coregex). Both report an empty match that directly follows a non-empty
one, so "a*" over "baaac" rewrites to the same text in either flavor.
ECMAScript numbers capture groups by where they open in the pattern, named
or not.

# Replacement tokens

	$&   the matched text
	$$   a literal "$"
	$`   everything before the match
	$'   everything after the match
	$N   capture group N (two digits are tried first)

A group reference that does not exist, or a group that did not participate in
the match, is copied through as written.

# Errors

Rewrite never fails. Rules with invalid patterns or no replacement are
skipped, insertions that land on ignored characters are dropped and matches
that overlap a claimed or ignored character are discarded. An Engine in strict
mode reports the rule-level problems as an error; every outcome is available
as a Diagnostic on the Result.
*/
package rewrite
