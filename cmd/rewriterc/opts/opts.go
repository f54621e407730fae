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

package opts

import (
	"context"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the --config flag; empty means search the working directory
	ConfigFile string
	// Root is the --root flag; empty means the config file's directory
	Root  string
	Debug bool

	Config     *config.Config
	Console    *log.Logger
	UserLogger *log.UserLogger
}

// LoadConfig resolves and loads the config file and fills in Root.
func (o *RootOpts) LoadConfig(ctx context.Context) error {
	path := o.ConfigFile
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return errors.Errorf("finding config: %w", err)
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	o.ConfigFile = path

	if o.Root == "" {
		o.Root = filepath.Dir(path)
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return errors.Errorf("getting absolute root path: %w", err)
	}
	o.Root = root
	return nil
}
