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
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of rewriting a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // No rule applied
	StatusModified             // Content was rewritten
	StatusSkipped              // Not processed (binary or unreadable as text)
	StatusFailed               // Processing returned an error
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains the rewrite outcome for one file
type FileInfo struct {
	Path      string     // Path relative to the manager root
	Target    string     // Name of the config target that matched
	Status    FileStatus // Outcome
	Applied   int        // Matches that made it into the output
	Discarded int        // Matches lost to overlaps or ignore ranges
	Checksum  string     // SHA-256 of the rewritten content
	Error     error      // Any error associated with this file
}

// 💾 FileManager handles file system access below a root directory
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	BackupFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	// Status tracking
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Base directory for all operations
	formatter FileFormatter // Formatter for status messages

	// Status tracking
	mu    sync.RWMutex
	files map[string]FileInfo

	// Progress tracking
	total     int
	processed int
}

// 🏭 NewManager creates a new status manager rooted at baseDir
func NewManager(baseDir string, formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: formatter,
		files:     make(map[string]FileInfo),
	}
}

// 🔒 getAbsPath resolves a relative path and refuses to leave the root
func (m *Manager) getAbsPath(path string) (string, error) {
	abs := filepath.Join(m.baseDir, path)
	rel, err := filepath.Rel(m.baseDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("path %s escapes %s", path, m.baseDir)
	}
	return abs, nil
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	absPath, err := m.getAbsPath(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic writes through a temp file in the same directory and
// renames it over the target, keeping the existing file mode.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath, err := m.getAbsPath(path)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if fi, err := os.Stat(absPath); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Trace().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// BackupFile copies path to path.bak. A missing file is not an error.
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	absPath, err := m.getAbsPath(path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(absPath)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("reading file for backup: %w", err)
	}

	if err := os.WriteFile(absPath+".bak", content, 0644); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}
	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	msg := m.formatter.FormatFileOperation(info)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Stringer("status", info.Status).
		Int("applied", info.Applied).
		Msg(msg)
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns every tracked file sorted by path.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	slices.SortFunc(files, func(a, b FileInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.total, m.total))
}
