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

// Package testutils holds helpers shared by tests that work on real files.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// 🧪 LoggerContext returns a context whose zerolog logger writes through t.Log
func LoggerContext(t testing.TB) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 📂 WriteTree creates files below root. Keys are slash separated relative paths.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent of %s", name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing %s", name)
	}
}

// 📖 ReadTree reads the named files below root into a map keyed by name.
func ReadTree(t testing.TB, root string, names ...string) map[string]string {
	t.Helper()
	out := make(map[string]string, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		require.NoError(t, err, "reading %s", name)
		out[name] = string(content)
	}
	return out
}
