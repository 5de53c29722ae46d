package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Header / Footer
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Footer      lipgloss.Style
	FooterKey   lipgloss.Style
	FooterDesc  lipgloss.Style

	// Panels
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Dim        lipgloss.Style
	Text       lipgloss.Style

	// Table
	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowSel lipgloss.Style

	// Freshness and distance status
	Live     lipgloss.Style
	Stale    lipgloss.Style
	Waiting  lipgloss.Style
	Stable   lipgloss.Style
	Changing lipgloss.Style

	// HTTP status badges
	BadgeSuccess     lipgloss.Style
	BadgeClientError lipgloss.Style
	BadgeServerError lipgloss.Style

	// Log categories
	CategoryWeb      lipgloss.Style
	CategoryDistance lipgloss.Style
	CategoryVoice    lipgloss.Style
	CategorySchedule lipgloss.Style

	Sparkline lipgloss.Style
	Items     lipgloss.Style

	// Modal / overlay
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	badge := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(theme.Base00).Background(c).Bold(true).Padding(0, 1)
	}
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: fg(theme.Base0D).Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey:  fg(theme.Base0D).Bold(true),
		FooterDesc: fg(theme.Base04),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base02).
			Padding(0, 1),
		PanelTitle: fg(theme.Base0E).Bold(true),
		Dim:        fg(theme.Base03),
		Text:       fg(theme.Base05),

		TableHeader: fg(theme.Base0D).Bold(true),
		TableRow:    fg(theme.Base05),
		TableRowSel: fg(theme.Base05).Background(theme.Base02),

		Live:     fg(theme.Base0B).Bold(true),
		Stale:    fg(theme.Base0A).Bold(true),
		Waiting:  fg(theme.Base04),
		Stable:   fg(theme.Base0B),
		Changing: fg(theme.Base09).Bold(true),

		BadgeSuccess:     badge(theme.Base0B),
		BadgeClientError: badge(theme.Base0A),
		BadgeServerError: badge(theme.Base08),

		CategoryWeb:      fg(theme.Base04),
		CategoryDistance: fg(theme.Base0C),
		CategoryVoice:    fg(theme.Base0E),
		CategorySchedule: fg(theme.Base0A),

		Sparkline: fg(theme.Base0C),
		Items:     fg(theme.Base09),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			BorderBackground(theme.Base00).
			Background(theme.Base00).
			Padding(1, 2),
		ModalTitle: fg(theme.Base0D).Bold(true),
	}
}
