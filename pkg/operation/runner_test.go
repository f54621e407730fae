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
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type funcOperation func(ctx context.Context) error

func (f funcOperation) Execute(ctx context.Context) error {
	return f(ctx)
}

func TestRunner(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		async   bool
		op      funcOperation
		cancel  bool
		wantErr error
	}{
		{name: "sync_ok", op: func(context.Context) error { return nil }},
		{name: "sync_error", op: func(context.Context) error { return boom }, wantErr: boom},
		{name: "async_ok", async: true, op: func(context.Context) error { return nil }},
		{name: "async_error", async: true, op: func(context.Context) error { return boom }, wantErr: boom},
		{
			name:    "sync_cancelled",
			op:      func(context.Context) error { return nil },
			cancel:  true,
			wantErr: context.Canceled,
		},
		{
			name:  "async_cancelled",
			async: true,
			op: func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			},
			cancel:  true,
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}

			err := NewRunner(tt.async).Run(ctx, tt.op)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type tallyOperation struct {
	sum Summary
	err error
}

func (op *tallyOperation) Name() string { return "tally" }

func (op *tallyOperation) Execute(context.Context) error { return op.err }

func (op *tallyOperation) Summary() Summary { return op.sum }

func TestRunner_LogsSummary(t *testing.T) {
	for _, async := range []bool{false, true} {
		var buf bytes.Buffer
		ctx := zerolog.New(&buf).WithContext(context.Background())

		op := &tallyOperation{sum: Summary{Files: 3, Modified: 2, Failed: 1, Applied: 5, Discarded: 4}}
		require.NoError(t, NewRunner(async).Run(ctx, op))

		var finished map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(line, &entry))
			if entry["message"] == "finished" {
				finished = entry
			}
		}
		require.NotNil(t, finished, "async=%v", async)
		assert.Equal(t, "tally", finished["operation"])
		assert.Equal(t, "info", finished["level"])
		assert.EqualValues(t, 3, finished["files"])
		assert.EqualValues(t, 2, finished["modified"])
		assert.EqualValues(t, 1, finished["failed"])
		assert.EqualValues(t, 5, finished["applied"])
		assert.EqualValues(t, 4, finished["discarded"])
		assert.Contains(t, finished, "elapsed")
	}
}

func TestRunner_NamesOperationInErrors(t *testing.T) {
	boom := errors.New("boom")
	err := NewRunner(true).Run(context.Background(), &tallyOperation{err: boom})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "executing tally")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewRunner(false).Run(ctx, &tallyOperation{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "tally cancelled")
}
