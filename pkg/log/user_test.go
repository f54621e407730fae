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
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name string
		op   func(u *UserLogger)
		want []string
	}{
		{
			name: "modified_file",
			op: func(u *UserLogger) {
				u.LogFileChange(SummaryRow{Path: "a.go", Status: "modified", Applied: 3}, nil)
			},
			want: []string{"Rewrote a.go (3 replacements)"},
		},
		{
			name: "failed_file",
			op: func(u *UserLogger) {
				u.LogFileChange(SummaryRow{Path: "b.go", Status: "failed"}, errors.New("permission denied"))
			},
			want: []string{"Failed b.go", "permission denied"},
		},
		{
			name: "validation",
			op: func(u *UserLogger) {
				u.LogValidation(true, "all files up to date", nil)
				u.LogValidation(false, "2 files would change", nil)
			},
			want: []string{"all files up to date", "2 files would change"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			u := NewUserLogger(context.Background(), buf)
			tt.op(u)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestUserLogger_Summary(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	u := NewUserLogger(context.Background(), buf)

	err := u.LogSummary([]SummaryRow{
		{Path: "a.go", Target: "headers", Status: "modified", Applied: 2},
		{Path: "b.go", Target: "headers", Status: "unchanged", Discarded: 1},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "File")
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "headers")
	assert.Contains(t, out, "2 files, 1 modified, 2 replacements")
}
