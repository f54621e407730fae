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
	"os"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work the runner can execute
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains everything an operation needs
type Options struct {
	// Config is the loaded and validated configuration
	Config *config.Config
	// Root is the directory target globs resolve against
	Root string
	// DryRun reports changes without writing them
	DryRun bool
	// Backup writes path.bak before replacing a file
	Backup bool
	// Async runs the operation through the async runner
	Async bool

	// Engine rewrites file content; defaults to Config.Engine()
	Engine *rewrite.Engine
	// Files reads and writes below Root; defaults to a status.Manager
	Files status.FileManager
	// Status tracks per-file outcomes; defaults to the same status.Manager
	Status status.StatusReporter
	// Logger prints one console line per file when set
	Logger *log.Logger
}

// withDefaults validates the options and fills in the collaborators
func (o Options) withDefaults() (Options, error) {
	if o.Config == nil {
		return o, errors.Errorf("config is required")
	}
	if o.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, errors.Errorf("getting working directory: %w", err)
		}
		o.Root = wd
	}
	if o.Engine == nil {
		o.Engine = o.Config.Engine()
	}
	if o.Files == nil || o.Status == nil {
		mgr := status.NewManager(o.Root, nil)
		if o.Files == nil {
			o.Files = mgr
		}
		if o.Status == nil {
			o.Status = mgr
		}
	}
	return o, nil
}

// Run executes op with a runner configured from opts.
func Run(ctx context.Context, opts Options, op Operation) error {
	return NewRunner(opts.Async).Run(ctx, op)
}
