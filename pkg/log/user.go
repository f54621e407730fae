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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints human friendly feedback for CLI commands
type UserLogger struct {
	out io.Writer
	log zerolog.Logger // for debug/error logging
}

// 📊 SummaryRow is one line of the end of run table
type SummaryRow struct {
	Path      string
	Target    string
	Status    string
	Applied   int
	Discarded int
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		out: out,
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileChange prints one file outcome with a status prefix
func (u *UserLogger) LogFileChange(row SummaryRow, err error) {
	var printer *pterm.PrefixPrinter
	var action string
	switch row.Status {
	case "modified":
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "🔄", Style: pterm.Success.Prefix.Style})
		action = "Rewrote"
	case "skipped":
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "⏭️", Style: pterm.Warning.Prefix.Style})
		action = "Skipped"
	case "failed":
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style})
		action = "Failed"
	default:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "👍", Style: pterm.Info.Prefix.Style})
		action = "Unchanged"
	}

	msg := fmt.Sprintf("%s %s", action, row.Path)
	if row.Applied > 0 {
		msg += fmt.Sprintf(" (%d replacements)", row.Applied)
	}

	fmt.Fprint(u.out, printer.Sprintln(msg))
	if err != nil {
		fmt.Fprint(u.out, pterm.Error.Sprintln(err))
		u.log.Error().Err(err).Msg(msg)
		return
	}
	u.log.Debug().Msg(msg)
}

// 📊 LogSummary renders the per-file table followed by a totals line
func (u *UserLogger) LogSummary(rows []SummaryRow) error {
	data := pterm.TableData{{"File", "Target", "Status", "Applied", "Discarded"}}
	modified, applied := 0, 0
	for _, r := range rows {
		data = append(data, []string{
			r.Path,
			r.Target,
			r.Status,
			strconv.Itoa(r.Applied),
			strconv.Itoa(r.Discarded),
		})
		if r.Status == "modified" {
			modified++
		}
		applied += r.Applied
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(u.out, table)

	summary := fmt.Sprintf("%d files, %d modified, %d replacements", len(rows), modified, applied)
	fmt.Fprint(u.out, pterm.Info.WithPrefix(pterm.Prefix{Text: "📦", Style: pterm.Info.Prefix.Style}).Sprintln(summary))
	u.log.Info().Int("files", len(rows)).Int("modified", modified).Int("applied", applied).Msg("summary")
	return nil
}

// 🔍 LogValidation reports the outcome of a check run
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		fmt.Fprint(u.out, pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).Sprintln(description))
		u.log.Info().Msg(description)
	case err != nil:
		fmt.Fprint(u.out, pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).Sprintln(description))
		fmt.Fprint(u.out, pterm.Error.Sprintln(err))
		u.log.Error().Err(err).Msg(description)
	default:
		fmt.Fprint(u.out, pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️", Style: pterm.Warning.Prefix.Style}).Sprintln(description))
		u.log.Warn().Msg(description)
	}
}
