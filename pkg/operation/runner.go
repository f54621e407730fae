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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// named operations show up by name in the run log
type named interface {
	Name() string
}

// summarizer is implemented by operations that tally per-file outcomes
type summarizer interface {
	Summary() Summary
}

// 🏃 OperationRunner executes one operation and logs how the run went
type OperationRunner struct {
	async bool
}

// 🏗️ NewRunner creates a runner. With async set, the operation executes on its
// own goroutine and Run returns as soon as ctx is cancelled.
func NewRunner(async bool) *OperationRunner {
	return &OperationRunner{async: async}
}

// 🏃 Run executes op and logs its name, duration and file summary
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	name := "operation"
	if n, ok := op.(named); ok {
		name = n.Name()
	}
	logger := zerolog.Ctx(ctx).With().Str("operation", name).Bool("async", r.async).Logger()

	if err := ctx.Err(); err != nil {
		return errors.Errorf("%s cancelled: %w", name, err)
	}

	logger.Debug().Msg("starting")
	started := time.Now()

	var err error
	if r.async {
		err = r.await(ctx, name, op)
	} else {
		err = op.Execute(ctx)
	}

	ev := logger.Info()
	if err != nil {
		ev = logger.Warn().Err(err)
	}
	ev = ev.Dur("elapsed", time.Since(started))
	if s, ok := op.(summarizer); ok {
		sum := s.Summary()
		ev = ev.Int("files", sum.Files).
			Int("modified", sum.Modified).
			Int("failed", sum.Failed).
			Int("applied", sum.Applied).
			Int("discarded", sum.Discarded)
	}
	ev.Msg("finished")

	return err
}

// ⚡ await executes op on a goroutine and stops waiting once ctx is done
func (r *OperationRunner) await(ctx context.Context, name string, op Operation) error {
	result := make(chan error, 1)
	go func() {
		result <- op.Execute(ctx)
	}()

	select {
	case <-ctx.Done():
		return errors.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-result:
		if err != nil {
			return errors.Errorf("executing %s: %w", name, err)
		}
		return nil
	}
}
