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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files. Expressions
// can read the process environment through env, e.g. env.USER.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclMatcher struct {
	Find   *string `hcl:"find,optional"`
	Regex  *string `hcl:"regex,optional"`
	Flags  string  `hcl:"flags,optional"`
	Flavor string  `hcl:"flavor,optional"`
}

type hclRule struct {
	Find    *string `hcl:"find,optional"`
	Regex   *string `hcl:"regex,optional"`
	Flags   string  `hcl:"flags,optional"`
	Flavor  string  `hcl:"flavor,optional"`
	Replace *string `hcl:"replace,optional"`
}

type hclRange struct {
	Start int `hcl:"start"`
	End   int `hcl:"end"`
}

type hclTarget struct {
	Name    string       `hcl:"name,label"`
	Include []string     `hcl:"include"`
	Exclude []string     `hcl:"exclude,optional"`
	Rules   []hclRule    `hcl:"rule,block"`
	Protect []hclMatcher `hcl:"protect,block"`
	Ranges  []hclRange   `hcl:"range,block"`
}

type hclConfig struct {
	Strict       bool        `hcl:"strict,optional"`
	MatchTimeout string      `hcl:"match_timeout,optional"`
	Concurrency  int         `hcl:"concurrency,optional"`
	Targets      []hclTarget `hcl:"target,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, envEvalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Strict:       hclCfg.Strict,
		MatchTimeout: hclCfg.MatchTimeout,
		Concurrency:  hclCfg.Concurrency,
	}
	for _, t := range hclCfg.Targets {
		target := Target{
			Name:    t.Name,
			Include: t.Include,
			Exclude: t.Exclude,
		}
		for _, r := range t.Rules {
			target.Rules = append(target.Rules, Rule{
				Matcher: Matcher{Find: r.Find, Regex: r.Regex, Flags: r.Flags, Flavor: r.Flavor},
				Replace: r.Replace,
			})
		}
		for _, m := range t.Protect {
			target.Protect = append(target.Protect, Matcher(m))
		}
		for _, r := range t.Ranges {
			target.Ranges = append(target.Ranges, rewrite.Range{Start: r.Start, End: r.End})
		}
		cfg.Targets = append(cfg.Targets, target)
	}

	return cfg, nil
}

// envEvalContext exposes the environment as the env object.
func envEvalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": env,
		},
	}
}
