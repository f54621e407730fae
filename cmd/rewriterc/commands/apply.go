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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/operation"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var options operation.Options

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite the files selected by the config targets",
		Long: `Apply rewrites every file selected by the config targets in place.
Each file is read once, every matching target's rules are applied in config
order and the result is written through a temp file and rename.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd.Context(), o, "apply", options, func(in operation.Options) (fileOperation, error) {
				return operation.NewRewriteOperation(in)
			})
		},
	}

	cmd.Flags().BoolVarP(&options.DryRun, "dry-run", "n", false, "report changes without writing files")
	cmd.Flags().BoolVar(&options.Backup, "backup", false, "write path.bak before replacing a file")
	cmd.Flags().BoolVar(&options.Async, "async", false, "return as soon as the context is cancelled")

	return cmd
}
