package status

import (
	"fmt"
)

// FileFormatter defines how file outcomes and progress should be formatted
type FileFormatter interface {
	// FormatFileOperation formats a file outcome message
	FormatFileOperation(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatFileOperation(info FileInfo) string {
	switch info.Status {
	case StatusModified:
		return fmt.Sprintf("📝 Rewrote %s (%s)", info.Path, plural(info.Applied, "replacement"))
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", info.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", info.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
