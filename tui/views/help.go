package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
)

// HelpView is the key reference overlay.
type HelpView struct {
	theme   styles.Theme
	sty     *styles.Styles
	width   int
	height  int
	visible bool
}

func NewHelpView(theme styles.Theme) HelpView {
	return HelpView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Toggle flips the help overlay visibility.
func (v *HelpView) Toggle() {
	v.visible = !v.visible
}

// IsVisible reports whether the overlay is shown.
func (v HelpView) IsVisible() bool {
	return v.visible
}

func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func helpSections() []helpSection {
	km := keys.DefaultKeyMap
	return []helpSection{
		{"Global", []key.Binding{km.Quit, km.Help, km.Theme}},
		{"Dashboard", []key.Binding{km.Up, km.Down, km.Enter, km.Dashboard, km.Refresh, km.Settings}},
		{"Dashboard Switcher", []key.Binding{
			key.NewBinding(key.WithHelp("enter", "start / switch")),
			km.Stop,
			key.NewBinding(key.WithHelp("esc", "close")),
		}},
		{"Detail / Settings", []key.Binding{km.Escape}},
	}
}

// View renders the overlay centered in the available space.
func (v HelpView) View() string {
	modalWidth := min(max(v.width/2, 38), 56)
	innerWidth := modalWidth - 6

	section := lipgloss.NewStyle().Foreground(v.theme.Base0E).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	desc := lipgloss.NewStyle().Foreground(v.theme.Base05)

	var b strings.Builder
	for _, sec := range helpSections() {
		b.WriteString(section.Render(sec.title) + "\n")
		for _, kb := range sec.bindings {
			h := kb.Help()
			b.WriteString("  " + keyStyle.Render(padRight(h.Key, 12)) + "  " + desc.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(v.theme.Base04).Render("[?] close"))

	modal := v.sty.ModalBorder.Width(innerWidth).Render(b.String())
	modal = titledBorder(modal, " Keyboard Shortcuts ", v.sty.ModalTitle, v.theme.Base0D)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, modal)
}

// titledBorder splices title into the top edge of a rounded-border box.
func titledBorder(box, title string, titleStyle lipgloss.Style, border lipgloss.Color) string {
	title = titleStyle.Render(title)
	first, rest, ok := strings.Cut(box, "\n")
	if !ok || lipgloss.Width(first) <= lipgloss.Width(title)+4 {
		return box
	}
	fg := lipgloss.NewStyle().Foreground(border)
	dashes := lipgloss.Width(first) - 3 - lipgloss.Width(title)
	return fg.Render("╭─") + title + fg.Render(strings.Repeat("─", dashes)+"╮") + "\n" + rest
}
