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
	"bytes"
	"context"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// binarySniffLen bounds the prefix searched for a NUL byte
const binarySniffLen = 8000

// 📊 Summary totals the outcome of a rewrite run
type Summary struct {
	Files     int
	Modified  int
	Unchanged int
	Skipped   int
	Failed    int
	Applied   int
	Discarded int
}

// 🔄 RewriteOperation rewrites every file selected by the config targets
type RewriteOperation struct {
	opts Options

	mu      sync.Mutex
	results []status.FileInfo
}

// 🏭 NewRewriteOperation creates a rewrite operation
func NewRewriteOperation(opts Options) (*RewriteOperation, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return &RewriteOperation{opts: opts}, nil
}

func (op *RewriteOperation) Name() string { return "rewrite" }

// Execute discovers the files, rewrites them concurrently and records one
// FileInfo per file. A failing file does not stop the others; all failures
// are returned together.
func (op *RewriteOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	jobs, err := plan(os.DirFS(op.opts.Root), op.opts.Config)
	if err != nil {
		return errors.Errorf("discovering files: %w", err)
	}
	logger.Debug().Int("files", len(jobs)).Str("root", op.opts.Root).Msg("discovered files")

	op.mu.Lock()
	op.results = op.results[:0]
	op.mu.Unlock()

	op.opts.Status.StartOperation(ctx, len(jobs))
	defer op.opts.Status.FinishOperation(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(op.opts.Config.Concurrency, 1))

	var failures []error
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info := op.processFile(gctx, j)
			op.record(ctx, info)
			if info.Error != nil {
				op.mu.Lock()
				failures = append(failures, errors.Errorf("%s: %w", info.Path, info.Error))
				op.mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("rewriting files: %w", err)
	}
	if len(failures) > 0 {
		return errors.Errorf("%d of %d files failed: %w", len(failures), len(jobs), errors.Join(failures...))
	}
	return nil
}

func (op *RewriteOperation) record(ctx context.Context, info status.FileInfo) {
	op.mu.Lock()
	op.results = append(op.results, info)
	processed := len(op.results)
	op.mu.Unlock()

	op.opts.Status.TrackFile(ctx, info)
	op.opts.Status.UpdateProgress(ctx, processed)

	if op.opts.Logger != nil {
		op.opts.Logger.LogFileOperation(ctx, log.FileOperation{
			Path:      info.Path,
			Target:    info.Target,
			Status:    info.Status.String(),
			Applied:   info.Applied,
			Discarded: info.Discarded,
			DryRun:    op.opts.DryRun,
		})
	}
}

// processFile runs every target of the job over the file content in order
// and writes the result when it changed.
func (op *RewriteOperation) processFile(ctx context.Context, j job) status.FileInfo {
	info := status.FileInfo{Path: j.path, Target: targetName(op.opts.Config, j.targets[0])}

	content, err := op.opts.Files.ReadFile(ctx, j.path)
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		return info
	}

	if isBinary(content) {
		info.Status = status.StatusSkipped
		return info
	}

	text := string(content)
	for _, ti := range j.targets {
		t := op.opts.Config.Targets[ti]

		ignore := append(t.Ranges[:len(t.Ranges):len(t.Ranges)], rewrite.ProtectedRanges(text, t.ProtectPatterns())...)
		res, err := op.opts.Engine.Rewrite(ctx, text, t.EngineRules(), ignore)
		if err != nil {
			info.Status = status.StatusFailed
			info.Error = errors.Errorf("target %s: %w", targetName(op.opts.Config, ti), err)
			return info
		}

		for _, d := range res.Diagnostics {
			zerolog.Ctx(ctx).Trace().Str("path", j.path).Stringer("diagnostic", d).Msg("rewrite diagnostic")
		}
		info.Applied += len(res.Applied)
		info.Discarded += res.Discarded
		text = res.Output
	}

	out := []byte(text)
	info.Checksum = status.Checksum(out)
	if bytes.Equal(out, content) {
		info.Status = status.StatusUnchanged
		return info
	}
	info.Status = status.StatusModified

	if op.opts.DryRun {
		return info
	}

	if op.opts.Backup {
		if err := op.opts.Files.BackupFile(ctx, j.path); err != nil {
			info.Status = status.StatusFailed
			info.Error = err
			return info
		}
	}
	if err := op.opts.Files.WriteFileAtomic(ctx, j.path, out); err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		return info
	}
	return info
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), binarySniffLen)], 0) >= 0
}

// Results returns the per-file outcomes of the last Execute sorted by path.
func (op *RewriteOperation) Results() []status.FileInfo {
	op.mu.Lock()
	defer op.mu.Unlock()

	results := slices.Clone(op.results)
	slices.SortFunc(results, func(a, b status.FileInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return results
}

// Summary totals the outcomes of the last Execute.
func (op *RewriteOperation) Summary() Summary {
	op.mu.Lock()
	defer op.mu.Unlock()

	s := Summary{Files: len(op.results)}
	for _, r := range op.results {
		switch r.Status {
		case status.StatusModified:
			s.Modified++
		case status.StatusUnchanged:
			s.Unchanged++
		case status.StatusSkipped:
			s.Skipped++
		case status.StatusFailed:
			s.Failed++
		}
		s.Applied += r.Applied
		s.Discarded += r.Discarded
	}
	return s
}
