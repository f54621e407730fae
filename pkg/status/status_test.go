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

package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestManager_WriteFileAtomic(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		existing *os.FileMode
		path     string
		content  []byte
		wantErr  bool
	}{
		{
			name:    "new_file",
			path:    "new.txt",
			content: []byte("hello"),
		},
		{
			name:     "keeps_mode",
			existing: ptr(os.FileMode(0600)),
			path:     "secret.txt",
			content:  []byte("rewritten"),
		},
		{
			name:    "nested_file",
			path:    filepath.Join("a", "b.txt"),
			content: []byte("nested"),
		},
		{
			name:    "escapes_root",
			path:    filepath.Join("..", "outside.txt"),
			content: []byte("nope"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			mgr := NewManager(dir, nil)
			abs := filepath.Join(dir, tt.path)

			if tt.existing != nil {
				require.NoError(t, os.WriteFile(abs, []byte("original"), *tt.existing))
				require.NoError(t, os.Chmod(abs, *tt.existing))
			}
			if !tt.wantErr {
				require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
			}

			err := mgr.WriteFileAtomic(ctx, tt.path, tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := os.ReadFile(abs)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)

			fi, err := os.Stat(abs)
			require.NoError(t, err)
			if tt.existing != nil {
				assert.Equal(t, *tt.existing, fi.Mode().Perm())
			}

			entries, err := os.ReadDir(filepath.Dir(abs))
			require.NoError(t, err)
			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".tmp", "temp file left behind")
			}
		})
	}
}

func TestManager_ReadAndBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mgr := NewManager(dir, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0644))

	content, err := mgr.ReadFile(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(content))

	_, err = mgr.ReadFile(ctx, "missing.txt")
	assert.Error(t, err)

	require.NoError(t, mgr.BackupFile(ctx, "a.txt"))
	backup, err := os.ReadFile(filepath.Join(dir, "a.txt.bak"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(backup))

	assert.NoError(t, mgr.BackupFile(ctx, "missing.txt"), "missing files have nothing to back up")
}

func TestManager_TrackFile(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(t.TempDir(), nil)

	mgr.TrackFile(ctx, FileInfo{Path: "z.txt", Status: StatusUnchanged})
	mgr.TrackFile(ctx, FileInfo{Path: "a.txt", Status: StatusModified, Applied: 3})
	mgr.TrackFile(ctx, FileInfo{Path: "m.txt", Status: StatusFailed, Error: errors.New("boom")})

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 3)
	assert.Equal(t, "a.txt", files[0].Path)
	assert.Equal(t, "m.txt", files[1].Path)
	assert.Equal(t, "z.txt", files[2].Path)

	info, err := mgr.GetFileInfo(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, StatusModified, info.Status)
	assert.Equal(t, 3, info.Applied)

	_, err = mgr.GetFileInfo(ctx, "nope.txt")
	assert.Error(t, err)

	// tracking again replaces the previous entry
	mgr.TrackFile(ctx, FileInfo{Path: "a.txt", Status: StatusUnchanged})
	info, err = mgr.GetFileInfo(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, info.Status)
	assert.Len(t, mgr.ListFiles(ctx), 3)
}

func TestManager_Progress(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(t.TempDir(), nil)

	mgr.StartOperation(ctx, 4)
	assert.Equal(t, 4, mgr.total)
	assert.Equal(t, 0, mgr.processed)

	mgr.UpdateProgress(ctx, 2)
	assert.Equal(t, 2, mgr.processed)

	mgr.FinishOperation(ctx)
	assert.Equal(t, 4, mgr.total)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
	assert.Equal(t, Checksum([]byte("abc")), Checksum([]byte("abc")))
	assert.NotEqual(t, Checksum([]byte("abc")), Checksum([]byte("abd")))
}

func TestFileStatus_String(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{StatusUnknown, "unknown"},
		{StatusUnchanged, "unchanged"},
		{StatusModified, "modified"},
		{StatusSkipped, "skipped"},
		{StatusFailed, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
