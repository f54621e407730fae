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
	"context"

	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// fileOperation is an operation that reports per-file results
type fileOperation interface {
	operation.Operation
	Results() []status.FileInfo
}

// runFiles loads the config, runs op over the configured targets and prints
// the per-file lines followed by a summary table.
func runFiles(ctx context.Context, o *opts.RootOpts, command string, options operation.Options, build func(operation.Options) (fileOperation, error)) error {
	if err := o.LoadConfig(ctx); err != nil {
		return err
	}

	options.Config = o.Config
	options.Root = o.Root
	options.Logger = o.Console

	op, err := build(options)
	if err != nil {
		return errors.Errorf("creating %s operation: %w", command, err)
	}

	o.Console.StartRun(ctx, log.RunOperation{
		Command: command,
		Config:  o.ConfigFile,
		Root:    o.Root,
		DryRun:  options.DryRun,
	})
	runErr := operation.Run(ctx, options, op)
	o.Console.EndRun(ctx)

	results := op.Results()
	rows := make([]log.SummaryRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, log.SummaryRow{
			Path:      r.Path,
			Target:    r.Target,
			Status:    r.Status.String(),
			Applied:   r.Applied,
			Discarded: r.Discarded,
		})
		if r.Error != nil {
			o.UserLogger.LogFileChange(rows[len(rows)-1], r.Error)
		}
	}
	if len(rows) > 0 {
		if err := o.UserLogger.LogSummary(rows); err != nil {
			return errors.Errorf("rendering summary: %w", err)
		}
	}

	return runErr
}
