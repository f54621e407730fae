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

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:    "main.go",
					Target:  "headers",
					Status:  "modified",
					Applied: 2,
				})
			},
			wantLogs: []string{
				fmt.Sprintf("⟳ %-35s %-15s %-15s +2", "main.go", "headers", "modified"),
			},
		},
		{
			name: "log_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Command: "apply",
					Config:  ".rewriterc.yaml",
					Root:    "/tmp/project",
					DryRun:  true,
				})
				logger.EndRun(context.Background())
			},
			wantLogs: []string{
				"[apply /tmp/project]",
				"◆ .rewriterc.yaml • dry run",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %d", 3)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success 3",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("rewriting files")
			},
			wantLogs: []string{
				"rewriterc • rewriting files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "modified",
			op:   FileOperation{Path: "a.txt", Target: "docs", Status: "modified", Applied: 4, Discarded: 1},
			want: fmt.Sprintf("    ⟳ %-35s %-15s %-15s +4 ~1", "a.txt", "docs", "modified"),
		},
		{
			name: "dry_run",
			op:   FileOperation{Path: "a.txt", Target: "docs", Status: "modified", Applied: 1, DryRun: true},
			want: fmt.Sprintf("    ⟳ %-35s %-15s %-15s +1", "a.txt", "docs", "would rewrite"),
		},
		{
			name: "failed",
			op:   FileOperation{Path: "b.txt", Target: "docs", Status: "failed"},
			want: fmt.Sprintf("    ✗ %-35s %-15s %-15s", "b.txt", "docs", "failed"),
		},
		{
			name: "unchanged_with_discards",
			op:   FileOperation{Path: "c.txt", Target: "docs", Status: "unchanged", Discarded: 2},
			want: fmt.Sprintf("    • %-35s %-15s %-15s +0 ~2", "c.txt", "docs", "unchanged"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Disabled)
			assert.Equal(t, tt.want, logger.formatFileOperation(tt.op))
		})
	}
}
