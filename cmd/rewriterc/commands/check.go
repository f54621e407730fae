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

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail when any file would be rewritten",
		Long: `Check runs the configured rules without writing anything and exits
non-zero when at least one file would change. Useful in CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFiles(cmd.Context(), o, "check", operation.Options{DryRun: true}, func(in operation.Options) (fileOperation, error) {
				return operation.NewCheckOperation(in)
			})
			if err == nil {
				o.UserLogger.LogValidation(true, "All files are up to date", nil)
			}
			return err
		},
	}

	return cmd
}
