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
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrChangesPending is returned by a check when at least one file would be
// rewritten.
var ErrChangesPending = errors.Base("files would be rewritten")

// 🔍 CheckOperation runs a rewrite without writing and fails when anything
// would change
type CheckOperation struct {
	*RewriteOperation
}

// 🏭 NewCheckOperation creates a check operation. DryRun is always on.
func NewCheckOperation(opts Options) (*CheckOperation, error) {
	opts.DryRun = true
	opts.Backup = false
	op, err := NewRewriteOperation(opts)
	if err != nil {
		return nil, err
	}
	return &CheckOperation{RewriteOperation: op}, nil
}

func (op *CheckOperation) Name() string { return "check" }

func (op *CheckOperation) Execute(ctx context.Context) error {
	if err := op.RewriteOperation.Execute(ctx); err != nil {
		return err
	}

	summary := op.Summary()
	zerolog.Ctx(ctx).Debug().
		Int("files", summary.Files).
		Int("modified", summary.Modified).
		Msg("check complete")

	if summary.Modified > 0 {
		return errors.Errorf("%d of %d files: %w", summary.Modified, summary.Files, ErrChangesPending)
	}
	return nil
}
