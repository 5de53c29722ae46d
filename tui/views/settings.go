package views

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
)

// SettingsAction describes what the app should do after a settings update.
type SettingsAction int

const (
	SettingsNone SettingsAction = iota
	// SettingsClose means the user cancelled without saving.
	SettingsClose
	// SettingsSaved means the config was updated; the app should apply it.
	SettingsSaved
)

// Settings field indices.
const (
	settingsFieldTheme     = 0
	settingsFieldEndpoint  = 1
	settingsFieldInterval  = 2
	settingsFieldDashboard = 3
	settingsFieldCount     = 4
)

// minInterval is the shortest poll interval the settings screen accepts.
const minInterval = 500 * time.Millisecond

// SettingsView is a full-screen settings editor with a live theme preview.
// Text fields move with the arrow keys and tab only, so letters reach the
// inputs.
type SettingsView struct {
	theme  styles.Theme
	sty    *styles.Styles
	config *config.Config
	path   string // config file; empty means do not persist

	themeSlug string
	cursor    int

	width  int
	height int

	endpointInput  textinput.Model
	intervalInput  textinput.Model
	dashboardInput textinput.Model

	err        string
	SavedTheme string
}

// NewSettingsView creates a SettingsView populated from cfg. Saving writes
// cfg to path unless path is empty.
func NewSettingsView(theme styles.Theme, cfg *config.Config, path string) SettingsView {
	slug := cfg.Theme
	if _, ok := styles.Lookup(slug); !ok {
		slug = styles.DefaultSlug
	}

	newInput := func(placeholder, value string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		in.SetValue(value)
		return in
	}

	return SettingsView{
		theme:          theme,
		sty:            styles.NewStyles(theme),
		config:         cfg,
		path:           path,
		themeSlug:      slug,
		endpointInput:  newInput("http://localhost:3000/api/state", cfg.Endpoint, 256),
		intervalInput:  newInput("2s", cfg.PollInterval.String(), 16),
		dashboardInput: newInput("(none)", cfg.DefaultDashboard, 64),
	}
}

// SetSize updates the available dimensions for the settings view.
func (s *SettingsView) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// focusInput blurs all inputs and focuses the one at the cursor position.
func (s *SettingsView) focusInput() {
	s.endpointInput.Blur()
	s.intervalInput.Blur()
	s.dashboardInput.Blur()

	switch s.cursor {
	case settingsFieldEndpoint:
		s.endpointInput.Focus()
	case settingsFieldInterval:
		s.intervalInput.Focus()
	case settingsFieldDashboard:
		s.dashboardInput.Focus()
	}
}

func (s *SettingsView) move(delta int) {
	s.cursor = (s.cursor + delta + settingsFieldCount) % settingsFieldCount
	s.focusInput()
}

func (s *SettingsView) cycleTheme(delta int) {
	s.themeSlug = styles.Cycle(s.themeSlug, delta)
	s.theme, _ = styles.Lookup(s.themeSlug)
	s.sty = styles.NewStyles(s.theme)
}

// Update handles messages for the settings view.
func (s SettingsView) Update(msg tea.Msg) (SettingsView, tea.Cmd, SettingsAction) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil, SettingsNone
	}

	switch {
	case key.Matches(msgKey, keys.DefaultKeyMap.Escape):
		return s, nil, SettingsClose
	case key.Matches(msgKey, keys.DefaultKeyMap.Enter):
		return s.save()
	case msgKey.Type == tea.KeyUp || msgKey.Type == tea.KeyShiftTab:
		s.move(-1)
		return s, nil, SettingsNone
	case msgKey.Type == tea.KeyDown || msgKey.Type == tea.KeyTab:
		s.move(1)
		return s, nil, SettingsNone
	case s.cursor == settingsFieldTheme && msgKey.Type == tea.KeyLeft:
		s.cycleTheme(-1)
		return s, nil, SettingsNone
	case s.cursor == settingsFieldTheme && msgKey.Type == tea.KeyRight:
		s.cycleTheme(1)
		return s, nil, SettingsNone
	}

	var cmd tea.Cmd
	switch s.cursor {
	case settingsFieldEndpoint:
		s.endpointInput, cmd = s.endpointInput.Update(msg)
	case settingsFieldInterval:
		s.intervalInput, cmd = s.intervalInput.Update(msg)
	case settingsFieldDashboard:
		s.dashboardInput, cmd = s.dashboardInput.Update(msg)
	}
	return s, cmd, SettingsNone
}

// save validates the inputs, applies them to the config and persists it.
func (s SettingsView) save() (SettingsView, tea.Cmd, SettingsAction) {
	endpoint := strings.TrimSpace(s.endpointInput.Value())
	if u, err := url.Parse(endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		s.err = fmt.Sprintf("Invalid endpoint %q", endpoint)
		return s, nil, SettingsNone
	}

	intervalStr := strings.TrimSpace(s.intervalInput.Value())
	if intervalStr == "" {
		intervalStr = "2s"
	}
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		s.err = fmt.Sprintf("Invalid poll interval: %v", err)
		return s, nil, SettingsNone
	}
	if interval < minInterval {
		s.err = fmt.Sprintf("Poll interval must be at least %s", minInterval)
		return s, nil, SettingsNone
	}

	s.config.Theme = s.themeSlug
	s.config.Endpoint = endpoint
	s.config.PollInterval = interval
	s.config.DefaultDashboard = strings.TrimSpace(s.dashboardInput.Value())

	if s.path != "" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			s.err = fmt.Sprintf("Failed to create directories: %v", err)
			return s, nil, SettingsNone
		}
		if err := config.SaveConfig(s.config, s.path); err != nil {
			s.err = fmt.Sprintf("Failed to save config: %v", err)
			return s, nil, SettingsNone
		}
	}

	s.SavedTheme = s.config.Theme
	s.err = ""
	return s, nil, SettingsSaved
}

// View renders the settings screen.
func (s SettingsView) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(s.theme.Base04)
	activeLabelStyle := lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true)
	valStyle := lipgloss.NewStyle().Foreground(s.theme.Base06)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Settings") + "\n")
	b.WriteString("\n")

	if s.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(s.theme.Base08)
		b.WriteString("  " + errStyle.Render(s.err) + "\n\n")
	}

	themeDisplay := fmt.Sprintf("< %s >  (%d/%d)", s.theme.Name, styles.Position(s.themeSlug), len(styles.Themes))

	rows := []struct {
		label string
		value string
	}{
		{"Theme", valStyle.Render(themeDisplay)},
		{"Endpoint", s.endpointInput.View()},
		{"Poll Interval", s.intervalInput.View()},
		{"Default Dashboard", s.dashboardInput.View()},
	}

	for i, row := range rows {
		indicator := "  "
		lbl := labelStyle
		if i == s.cursor {
			indicator = activeLabelStyle.Render("> ")
			lbl = activeLabelStyle
		}
		b.WriteString(fmt.Sprintf("  %s%s%s\n", indicator, lbl.Render(padRight(row.label+":", 20)), row.value))
	}

	b.WriteString("\n")
	b.WriteString(s.renderThemePreview())
	b.WriteString("\n")
	b.WriteString("  " + s.renderHelp() + "\n")

	return b.String()
}

// renderThemePreview renders a small sample of the selected theme.
func (s SettingsView) renderThemePreview() string {
	preview := s.theme
	sty := styles.NewStyles(preview)

	sepStyle := lipgloss.NewStyle().Foreground(preview.Base03)
	titleStyle := lipgloss.NewStyle().Foreground(preview.Base0D).Bold(true)

	previewWidth := 56
	if s.width > 0 && s.width-6 < previewWidth {
		previewWidth = s.width - 6
	}
	previewWidth = max(previewWidth, 30)

	var b strings.Builder

	label := " Theme Preview "
	dashCount := max(previewWidth-len(label), 2)
	leftDash := dashCount / 2
	b.WriteString("  " + sepStyle.Render(strings.Repeat("-", leftDash)) + titleStyle.Render(label) +
		sepStyle.Render(strings.Repeat("-", dashCount-leftDash)) + "\n")

	headerBg := lipgloss.NewStyle().
		Background(preview.Base01).
		Foreground(preview.Base05).
		Bold(true).
		Padding(0, 1)
	headerTitle := lipgloss.NewStyle().
		Background(preview.Base01).
		Foreground(preview.Base0D).
		Bold(true)
	b.WriteString("  " + headerBg.Render(headerTitle.Render("iotmon")+" - Sample Dashboard"+strings.Repeat(" ", max(0, previewWidth-31))) + "\n")

	b.WriteString("    " +
		sty.TableHeader.Render(padRight("Endpoint", 14)) +
		sty.TableHeader.Render(padRight("Rate", 8)) +
		sty.TableHeader.Render("Last") + "\n")

	samples := []struct {
		endpoint string
		rate     string
		rStyle   lipgloss.Style
		badge    lipgloss.Style
		status   string
	}{
		{"distance", "100%", sty.Live, sty.BadgeSuccess, "200"},
		{"schedule", "75%", sty.Stale, sty.BadgeClientError, "404"},
		{"voice-result", "20%", lipgloss.NewStyle().Foreground(preview.Base08), sty.BadgeServerError, "500"},
	}
	for _, r := range samples {
		b.WriteString("    " +
			sty.TableRow.Render(padRight(r.endpoint, 14)) +
			r.rStyle.Render(padRight(r.rate, 8)) +
			r.badge.Render(r.status) + "\n")
	}

	b.WriteString("\n")
	swatchLabel := lipgloss.NewStyle().Foreground(preview.Base04)
	b.WriteString("  " + swatchLabel.Render("Colors: "))
	for _, cp := range []struct {
		name  string
		color lipgloss.Color
	}{
		{"red", preview.Base08},
		{"org", preview.Base09},
		{"yel", preview.Base0A},
		{"grn", preview.Base0B},
		{"cyn", preview.Base0C},
		{"blu", preview.Base0D},
		{"mag", preview.Base0E},
	} {
		b.WriteString(lipgloss.NewStyle().Foreground(cp.color).Render(cp.name) + " ")
	}
	b.WriteString("\n")

	b.WriteString("  " + sepStyle.Render(strings.Repeat("-", previewWidth)) + "\n")
	return b.String()
}

func (s SettingsView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(s.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true)

	hint := fmt.Sprintf(
		"%s/%s navigate  %s save  %s cancel",
		keyStyle.Render("[up]"),
		keyStyle.Render("[down]"),
		keyStyle.Render("[enter]"),
		keyStyle.Render("[esc]"),
	)
	if s.cursor == settingsFieldTheme {
		hint = fmt.Sprintf("%s/%s cycle theme  ", keyStyle.Render("[left]"), keyStyle.Render("[right]")) + hint
	}
	return helpStyle.Render(hint)
}
