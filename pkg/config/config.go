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

package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// 📄 DefaultFiles are the config names looked up by Find, in order
var DefaultFiles = []string{
	".rewriterc.yaml",
	".rewriterc.yml",
	".rewriterc.hcl",
	".rewriterc.json",
}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔍 Matcher describes a pattern: exactly one of Find or Regex is set
type Matcher struct {
	Find   *string `json:"find,omitempty" yaml:"find,omitempty"`
	Regex  *string `json:"regex,omitempty" yaml:"regex,omitempty"`
	Flags  string  `json:"flags,omitempty" yaml:"flags,omitempty"`
	Flavor string  `json:"flavor,omitempty" yaml:"flavor,omitempty"`
}

// 🔄 Rule is a matcher with an optional replacement. A rule without a
// replacement is kept so the engine can report it.
type Rule struct {
	Matcher `yaml:",inline"`
	Replace *string `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// 🎯 Target binds rules to the files matched by its globs
type Target struct {
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Include []string        `json:"include" yaml:"include"`
	Exclude []string        `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Rules   []Rule          `json:"rules" yaml:"rules"`
	Protect []Matcher       `json:"protect,omitempty" yaml:"protect,omitempty"`
	Ranges  []rewrite.Range `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Strict       bool     `json:"strict,omitempty" yaml:"strict,omitempty"`
	MatchTimeout string   `json:"match_timeout,omitempty" yaml:"match_timeout,omitempty"`
	Concurrency  int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Targets      []Target `json:"targets" yaml:"targets"`

	location string
	timeout  time.Duration
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// 🔎 Find returns the first default config file present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
	}
	return "", errors.Errorf("no config file found in %s", dir)
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Targets) == 0 {
		return errors.Errorf("targets is required")
	}

	if cfg.MatchTimeout != "" {
		d, err := time.ParseDuration(cfg.MatchTimeout)
		if err != nil {
			return errors.Errorf("match_timeout: %w", err)
		}
		if d < 0 {
			return errors.Errorf("match_timeout must not be negative")
		}
		cfg.timeout = d
	}

	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative")
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	for i := range cfg.Targets {
		if err := cfg.Targets[i].validate(); err != nil {
			return errors.Errorf("targets[%d]: %w", i, err)
		}
	}

	return nil
}

func (t *Target) validate() error {
	if len(t.Include) == 0 {
		return errors.Errorf("include is required")
	}
	if len(t.Rules) == 0 {
		return errors.Errorf("rules is required")
	}
	for i, r := range t.Rules {
		if err := r.Matcher.validate(); err != nil {
			return errors.Errorf("rules[%d]: %w", i, err)
		}
	}
	for i, m := range t.Protect {
		if err := m.validate(); err != nil {
			return errors.Errorf("protect[%d]: %w", i, err)
		}
	}
	for i, r := range t.Ranges {
		if r.Start < 0 || r.End < r.Start {
			return errors.Errorf("ranges[%d]: invalid range [%d, %d]", i, r.Start, r.End)
		}
	}
	return nil
}

func (m Matcher) validate() error {
	switch {
	case m.Find == nil && m.Regex == nil:
		return errors.Errorf("one of find or regex is required")
	case m.Find != nil && m.Regex != nil:
		return errors.Errorf("find and regex are mutually exclusive")
	case m.Find != nil && (m.Flags != "" || m.Flavor != ""):
		return errors.Errorf("flags and flavor only apply to regex")
	}
	if m.Regex != nil {
		if _, err := rewrite.ParseFlavor(m.Flavor); err != nil {
			return err
		}
	}
	return nil
}

// Pattern converts the matcher to an engine pattern. It assumes Validate
// has passed.
func (m Matcher) Pattern() rewrite.Pattern {
	if m.Find != nil {
		return rewrite.Literal(*m.Find)
	}
	flavor, _ := rewrite.ParseFlavor(m.Flavor)
	return rewrite.Pattern{Text: *m.Regex, Flags: m.Flags, Flavor: flavor}
}

// EngineRules converts the target's rules to engine rules.
func (t Target) EngineRules() []rewrite.Rule {
	rules := make([]rewrite.Rule, 0, len(t.Rules))
	for _, r := range t.Rules {
		rules = append(rules, rewrite.Rule{Pattern: r.Pattern(), Replacement: r.Replace})
	}
	return rules
}

// ProtectPatterns converts the target's protect matchers to engine patterns.
func (t Target) ProtectPatterns() []rewrite.Pattern {
	patterns := make([]rewrite.Pattern, 0, len(t.Protect))
	for _, m := range t.Protect {
		patterns = append(patterns, m.Pattern())
	}
	return patterns
}

// Engine builds a rewrite engine from the global settings.
func (cfg *Config) Engine() *rewrite.Engine {
	return rewrite.New(
		rewrite.WithStrict(cfg.Strict),
		rewrite.WithMatchTimeout(cfg.timeout),
	)
}

// Timeout returns the parsed match timeout.
func (cfg *Config) Timeout() time.Duration {
	return cfg.timeout
}

// Location returns the path the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}
