package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
)

// SwitcherAction describes what the app should do after a switcher key press.
type SwitcherAction int

const (
	ActionNone SwitcherAction = iota
	ActionClose
	// ActionSwitch starts the selected dashboard if needed and shows it.
	ActionSwitch
	// ActionStop stops the selected session.
	ActionStop
)

// SwitcherItem is one dashboard in the switcher list: a definition on disk,
// a running session, or both.
type SwitcherItem struct {
	Name    string
	OnDisk  bool
	Running bool
	Info    engine.SessionInfo
}

// SessionLister is the part of the manager the switcher needs.
type SessionLister interface {
	TryListSessions() ([]engine.SessionInfo, bool)
}

// SwitcherView is a modal overlay that lists dashboards and lets the user
// switch between them or stop sessions.
type SwitcherView struct {
	theme  styles.Theme
	sty    *styles.Styles
	items  []SwitcherItem
	cursor int
	width  int
	height int
}

// NewSwitcherView creates a new SwitcherView with the given theme.
func NewSwitcherView(theme styles.Theme) SwitcherView {
	return SwitcherView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Refresh merges the dashboard files in dashDir with the running sessions.
// When the manager is busy the previous session info is kept.
func (v *SwitcherView) Refresh(dashDir string, mgr SessionLister) {
	names, _ := dashboard.ListDashboards(dashDir)

	sessions, ok := mgr.TryListSessions()
	if !ok {
		for _, item := range v.items {
			if item.Running {
				sessions = append(sessions, item.Info)
			}
		}
	}

	byName := make(map[string]*SwitcherItem)
	var items []SwitcherItem
	for _, name := range names {
		items = append(items, SwitcherItem{Name: name, OnDisk: true})
	}
	for i := range items {
		byName[items[i].Name] = &items[i]
	}
	for _, info := range sessions {
		if item, ok := byName[info.Name]; ok {
			item.Running = true
			item.Info = info
			continue
		}
		items = append(items, SwitcherItem{Name: info.Name, Running: true, Info: info})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	v.items = items

	if v.cursor >= len(v.items) {
		v.cursor = len(v.items) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetSize updates the available dimensions for the overlay.
func (v *SwitcherView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SelectedItem returns the currently highlighted item, or nil if the list is
// empty.
func (v *SwitcherView) SelectedItem() *SwitcherItem {
	if len(v.items) == 0 {
		return nil
	}
	return &v.items[v.cursor]
}

// Update handles key messages for the switcher overlay.
func (v SwitcherView) Update(msg tea.Msg) (SwitcherView, tea.Cmd, SwitcherAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, ActionClose

		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.cursor > 0 {
				v.cursor--
			}

		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}

		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if len(v.items) > 0 {
				return v, nil, ActionSwitch
			}

		case key.Matches(msg, keys.DefaultKeyMap.Stop):
			if len(v.items) > 0 && v.items[v.cursor].Running {
				return v, nil, ActionStop
			}
		}
	}
	return v, nil, ActionNone
}

// View renders the switcher as a centered modal box.
func (v SwitcherView) View() string {
	modalWidth := 44
	if v.width > 60 {
		modalWidth = min(v.width/2, 60)
	}
	modalWidth = max(modalWidth, 30)

	innerWidth := modalWidth - 6

	var lines []string
	if len(v.items) == 0 {
		dimStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
		lines = append(lines, dimStyle.Render("No dashboards found."))
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("Add one under the dashboards directory."))
	} else {
		for i, item := range v.items {
			lines = append(lines, v.renderItem(item, i == v.cursor, innerWidth-4))
		}
	}

	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	helpKeyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	help := fmt.Sprintf(
		"%s:switch  %s:stop  %s:close",
		helpKeyStyle.Render("enter"),
		helpKeyStyle.Render("x"),
		helpKeyStyle.Render("esc"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"),
		"",
		helpStyle.Render(help),
	)

	noTopBorder := v.sty.ModalBorder.BorderTop(false)
	modalBody := noTopBorder.Width(innerWidth).Render(content)

	borderFg := lipgloss.NewStyle().Foreground(v.theme.Base0D).Background(v.theme.Base00)
	titleText := " Dashboards "
	titleRendered := v.sty.ModalTitle.Render(titleText)

	// corners(2) + one dash + title
	rightDashes := max(0, lipgloss.Width(modalBody)-3-len(titleText))
	topBorder := borderFg.Render("╭─") + titleRendered + borderFg.Render(strings.Repeat("─", rightDashes)+"╮")

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, topBorder+"\n"+modalBody)
}

// statusText is the plain status shown to the right of a dashboard name.
func statusText(item SwitcherItem) string {
	if !item.Running {
		return "o stopped"
	}
	label := "LIVE"
	switch {
	case item.Info.Stale:
		label = "STALE"
	case item.Info.PollCount == 0:
		label = "WAITING"
	}
	return fmt.Sprintf("* %s  (%d)", label, item.Info.PollCount)
}

func (v SwitcherView) renderItem(item SwitcherItem, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	cursorStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)

	nameStyle := lipgloss.NewStyle().Foreground(v.theme.Base05)
	if selected {
		nameStyle = nameStyle.Foreground(v.theme.Base06).Bold(true)
	}
	name := item.Name
	if !item.OnDisk {
		name += " (ad hoc)"
	}

	status := statusText(item)
	statusStyle := lipgloss.NewStyle().Foreground(v.theme.Base03)
	if item.Running {
		statusStyle = v.sty.Live
		if item.Info.Stale {
			statusStyle = v.sty.Stale
		}
	}

	padLen := max(2, width-len(cursor)-lipgloss.Width(name)-len(status))
	return cursorStyle.Render(cursor) + nameStyle.Render(name) + strings.Repeat(" ", padLen) + statusStyle.Render(status)
}
