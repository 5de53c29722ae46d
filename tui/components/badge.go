package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/styles"
)

// RenderBadge renders an HTTP status badge. BadgeNone renders nothing.
func RenderBadge(sty *styles.Styles, badge engine.StatusBadge, status int) string {
	var style lipgloss.Style
	switch badge {
	case engine.BadgeSuccess:
		style = sty.BadgeSuccess
	case engine.BadgeClientError:
		style = sty.BadgeClientError
	case engine.BadgeServerError:
		style = sty.BadgeServerError
	default:
		return ""
	}
	return style.Render(strconv.Itoa(status))
}

// CategoryStyle returns the style for a log category.
func CategoryStyle(sty *styles.Styles, c engine.Category) lipgloss.Style {
	switch c {
	case engine.CategoryDistance:
		return sty.CategoryDistance
	case engine.CategoryVoice:
		return sty.CategoryVoice
	case engine.CategorySchedule:
		return sty.CategorySchedule
	case engine.CategoryWeb:
		return sty.CategoryWeb
	}
	return sty.Text
}
