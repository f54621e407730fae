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
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	targetWidth  = 15 // Width for target name
	statusWidth  = 15 // Width for status text
	detailIndent = 1
)

// 🎯 FileOperation represents one rewritten (or inspected) file
type FileOperation struct {
	Path      string // File path relative to the run root
	Target    string // Config target that selected the file
	Status    string // unchanged, modified, skipped, failed
	Applied   int    // Replacements that landed in the output
	Discarded int    // Matches lost to overlaps or ignore ranges
	DryRun    bool   // Whether the change was only reported
}

// 📦 RunOperation describes one invocation over a config file
type RunOperation struct {
	Command string // apply, check
	Config  string // Config file path
	Root    string // Directory that globs resolve against
	DryRun  bool
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	status := op.Status
	switch op.Status {
	case "modified":
		symbol = '⟳'
		symbolColor = color.FgBlue
		if op.DryRun {
			status = "would rewrite"
		}
	case "failed":
		symbol = '✗'
		symbolColor = color.FgRed
	case "skipped":
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.FgMagenta).Sprint(fmt.Sprintf("%-*s", targetWidth, op.Target)),
		fmt.Sprintf("%-*s", statusWidth, status))

	if op.Applied > 0 || op.Discarded > 0 {
		detail := fmt.Sprintf("+%d", op.Applied)
		if op.Discarded > 0 {
			detail += fmt.Sprintf(" ~%d", op.Discarded)
		}
		line += fmt.Sprintf("%*s%s", detailIndent, "", color.New(color.Faint).Sprint(detail))
	}
	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("target", op.Target).
		Str("status", op.Status).
		Int("applied", op.Applied).
		Int("discarded", op.Discarded).
		Bool("dry_run", op.DryRun).
		Msg("file operation")
}

// 📝 StartRun prints the run header and resets the recorded operations
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[%s %s]\n",
		op.Command,
		color.New(color.FgCyan).Sprint(op.Root))

	mode := "write"
	if op.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Config),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("command", op.Command).
		Str("config", op.Config).
		Str("root", op.Root).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun logs a summary of the recorded operations
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	modified, applied := 0, 0
	for _, op := range l.operations {
		if op.Status == "modified" {
			modified++
		}
		applied += op.Applied
	}

	l.zlog.Info().
		Str("command", l.currentRun.Command).
		Int("files", len(l.operations)).
		Int("modified", modified).
		Int("applied", applied).
		Msg("run complete")

	l.currentRun = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("rewriterc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
