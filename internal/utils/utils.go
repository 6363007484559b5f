// internal/utils/utils.go
package utils

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"
)

// ===============================
// TIME FORMATTING
// ===============================

// TimeAgo formats a timestamp as a relative age for feed-style surfaces.
// Buckets truncate: under a minute reads "Just now", under an hour "{m}m ago",
// under a day "{h}h ago", anything older "{d}d ago".
func TimeAgo(t time.Time) string {
	return timeAgoAt(t, time.Now())
}

func timeAgoAt(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// TimeAgoShort formats a timestamp in the terse style the conversation list
// uses: "now", "5m", "3h", "2d". Same buckets as TimeAgo, no "ago" suffix.
func TimeAgoShort(t time.Time) string {
	return timeAgoShortAt(t, time.Now())
}

func timeAgoShortAt(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	}
}

// ===============================
// STRING UTILITIES
// ===============================

// SanitizeString escapes HTML and trims whitespace from user input.
func SanitizeString(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// TruncateContent truncates a string to maxLen runes, appending an ellipsis
// when anything was cut.
func TruncateContent(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}

// FirstNonEmpty returns the first non-empty string in the list.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
