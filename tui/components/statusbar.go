package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/styles"
)

// RenderStatusBar renders the two-line footer: poll details for st on the
// first line, key hints and an optional flash message on the second.
func RenderStatusBar(theme styles.Theme, st *engine.State, interval time.Duration, now time.Time, flash string, width int) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	text := func(c lipgloss.Color, s string) string {
		return lipgloss.NewStyle().Foreground(c).Background(bg).Render(s)
	}
	sep := text(theme.Base03, " | ")

	segments := []string{text(theme.Base05, "poll: "+interval.String())}
	if st != nil {
		last := "never"
		if !st.LastPoll.IsZero() {
			last = humanize.RelTime(st.LastPoll, now, "ago", "from now")
		}
		segments = append(segments,
			text(theme.Base05, "last: "+last),
			text(theme.Base05, "polls: "+humanize.Comma(int64(st.PollCount))),
		)
		errColor := theme.Base0B
		if st.ErrorCount > 0 {
			errColor = theme.Base0A
		}
		segments = append(segments, text(errColor, "errors: "+humanize.Comma(int64(st.ErrorCount))))
		if st.DroppedEntries > 0 {
			segments = append(segments, text(theme.Base0A, fmt.Sprintf("dropped: %d", st.DroppedEntries)))
		}
		if st.Stale && st.ErrorText != "" {
			segments = append(segments, text(theme.Base08, st.ErrorText))
		}
	}
	top := fillLine(bgStyle, bgStyle.Render(" ")+strings.Join(segments, sep), width)

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")
	hints := [][2]string{
		{"enter", ":detail"},
		{"r", ":refresh"},
		{"d", ":dashboards"},
		{"t", ":theme"},
		{"?", ":help"},
		{"q", ":quit"},
	}
	keys := bgStyle.Render(" ")
	for i, h := range hints {
		if i > 0 {
			keys += spacer
		}
		keys += keyStyle.Render(h[0]) + descStyle.Render(h[1])
	}
	if flash != "" {
		keys += spacer + text(theme.Base0A, flash)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, fillLine(bgStyle, keys, width))
}

func fillLine(bgStyle lipgloss.Style, s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		s += bgStyle.Render(strings.Repeat(" ", width-w))
	}
	return s
}
