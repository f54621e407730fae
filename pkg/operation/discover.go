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

package operation

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📂 job is one file and the targets that apply to it, in config order
type job struct {
	path    string
	targets []int
}

// Discover returns the files a target selects below fsys: every include
// glob is expanded, files hit by an exclude glob are dropped, and the result
// is de-duplicated and sorted.
func Discover(fsys fs.FS, t config.Target) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range t.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid include pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			excluded, err := isExcluded(m, t.Exclude)
			if err != nil {
				return nil, err
			}
			seen[m] = true
			if !excluded {
				files = append(files, m)
			}
		}
	}

	slices.Sort(files)
	return files, nil
}

func isExcluded(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, errors.Errorf("matching exclude %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// plan groups the files of every target into jobs. A file selected by more
// than one target is rewritten once, with the targets applied in order.
func plan(fsys fs.FS, cfg *config.Config) ([]job, error) {
	index := make(map[string]int)
	var jobs []job

	for i, t := range cfg.Targets {
		files, err := Discover(fsys, t)
		if err != nil {
			return nil, errors.Errorf("target %s: %w", targetName(cfg, i), err)
		}
		for _, f := range files {
			if at, ok := index[f]; ok {
				jobs[at].targets = append(jobs[at].targets, i)
				continue
			}
			index[f] = len(jobs)
			jobs = append(jobs, job{path: f, targets: []int{i}})
		}
	}

	slices.SortFunc(jobs, func(a, b job) int {
		return strings.Compare(a.path, b.path)
	})
	return jobs, nil
}

func targetName(cfg *config.Config, i int) string {
	if name := cfg.Targets[i].Name; name != "" {
		return name
	}
	return fmt.Sprintf("targets[%d]", i)
}
