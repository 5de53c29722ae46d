package views

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// padRight pads s with spaces on the right to the given display width,
// truncating when s is wider.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// padLeft pads s with spaces on the left to the given display width.
func padLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillLeft(runewidth.Truncate(s, width, ""), width)
}

// truncate shortens s to maxWidth display columns, adding an ellipsis if
// needed.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// singleLine collapses embedded newlines so a log entry occupies one row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
