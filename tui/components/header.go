package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/styles"
)

// RenderHeader renders the top bar: app name, dashboard, freshness status,
// session count and version.
func RenderHeader(theme styles.Theme, dashName, status string, sessions, width int, ver string) string {
	seg := func(c lipgloss.Color, bold bool, s string) string {
		return lipgloss.NewStyle().Foreground(c).Background(theme.Base01).Bold(bold).Render(s)
	}

	if dashName == "" {
		dashName = "(no dashboard)"
	}

	statusColor := theme.Base04
	switch status {
	case engine.StatusLive:
		statusColor = theme.Base0B
	case engine.StatusStale:
		statusColor = theme.Base0A
	}

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s  |  %s ",
		seg(theme.Base0D, true, "iotmon"),
		seg(theme.Base05, false, dashName),
		seg(statusColor, true, StatusLabel(status)),
		seg(theme.Base04, false, fmt.Sprintf("%d sessions", sessions)),
		seg(theme.Base04, false, "v"+ver),
	)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}

// StatusLabel upper-cases a freshness status for display.
func StatusLabel(status string) string {
	switch status {
	case engine.StatusLive:
		return "LIVE"
	case engine.StatusStale:
		return "STALE"
	case engine.StatusWaiting:
		return "WAITING"
	}
	return "STOPPED"
}
