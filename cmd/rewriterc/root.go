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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: first .rewriterc.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "directory target globs resolve against (default: the config file's directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and returns a context
// carrying the logger
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}

// newRootCmd builds the command tree. Config loading is deferred to the
// commands that need it so flags are parsed first.
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Apply many find/replace rules to files in a single pass",
		Long: `rewriterc applies an ordered set of literal and regex rules to text in one
pass. Rules are matched against the original text, overlapping matches are
resolved in favour of the earliest and longest, and protected regions are
never touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := setupLogging(cmd.Context(), o.Debug)
			level := zerolog.InfoLevel
			if o.Debug {
				level = zerolog.DebugLevel
			}
			o.Console = log.New(cmd.OutOrStdout(), level)
			o.UserLogger = log.NewUserLogger(ctx, cmd.ErrOrStderr())
			cmd.SetContext(ctx)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewStringCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}
