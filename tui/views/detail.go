package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/components"
	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
)

// DetailView shows the latest distance reading, the distance history chart
// and the recent API calls.
type DetailView struct {
	theme  styles.Theme
	sty    *styles.Styles
	state  *engine.State
	now    func() time.Time
	width  int
	height int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
		now:   time.Now,
	}
}

// SetState updates the detail view with a new state.
func (v *DetailView) SetState(st *engine.State) {
	v.state = st
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages for the detail view. The third return value
// indicates whether the user wants to go back (Esc pressed).
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		}
	}
	return v, nil, false
}

// View renders the info panel, chart and call table.
func (v DetailView) View() string {
	latest, ok := v.state.Latest()
	if !ok {
		return v.renderEmpty()
	}

	info := v.renderInfoPanel(latest)
	calls := v.renderCalls()

	chartHeight := v.height - lipgloss.Height(info) - lipgloss.Height(calls) - 3
	if chartHeight < 6 {
		chartHeight = 6
	}
	chart := components.RenderChart(distanceSeries(v.state.DistanceHistory), v.width-2, chartHeight,
		"Distance", components.FormatDistance)
	chartStyled := lipgloss.NewStyle().Foreground(v.theme.Base0C).Render(chart)

	return lipgloss.JoinVertical(lipgloss.Left, info, "", chartStyled, calls, v.renderHelp())
}

func (v DetailView) renderEmpty() string {
	msg := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center).
		Render("No distance readings yet")
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}

func (v DetailView) renderInfoPanel(r engine.DistanceReading) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Width(16)
	valueStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	highlightStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	statusStyle := v.sty.Stable
	if r.Status() == engine.DistanceChanging {
		statusStyle = v.sty.Changing
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s%s", labelStyle.Render(label), value)
	}

	rows := []string{
		"",
		row("Current:", highlightStyle.Render(components.FormatDistance(r.Current))),
		row("Status:", statusStyle.Render(string(r.Status()))),
	}
	if r.Initial != nil {
		rows = append(rows, row("Initial:", valueStyle.Render(components.FormatDistance(*r.Initial))))
	}
	if drift, ok := r.Drift(); ok {
		rows = append(rows, row("Drift:", valueStyle.Render(components.FormatDrift(drift))))
	}
	if r.Elapsed != nil {
		elapsed := time.Duration(*r.Elapsed * float64(time.Second)).Round(time.Second)
		rows = append(rows, row("Elapsed:", valueStyle.Render(elapsed.String())))
	}
	if r.Source != "" {
		rows = append(rows, row("Source:", valueStyle.Render(r.Source)))
	}
	if !r.Timestamp.IsZero() {
		rows = append(rows, row("Measured:", valueStyle.Render(humanize.RelTime(r.Timestamp, v.now(), "ago", "from now"))))
	}
	rows = append(rows, row("Received:", valueStyle.Render(humanize.RelTime(r.ReceivedAt, v.now(), "ago", "from now"))))

	return strings.Join(rows, "\n")
}

func (v DetailView) renderCalls() string {
	lines := []string{v.sty.PanelTitle.Render("  Recent API calls")}
	if len(v.state.RecentCalls) == 0 {
		return strings.Join(append(lines, v.sty.Dim.Render("  none")), "\n")
	}

	hdr := v.sty.TableHeader
	lines = append(lines, "  "+
		hdr.Render(padRight("Status", 8))+
		hdr.Render(padRight("Method", 8))+
		hdr.Render(padRight("Endpoint", 28))+
		hdr.Render(padRight("IP", 16))+
		hdr.Render("When"))
	for _, c := range v.state.RecentCalls {
		badge := components.RenderBadge(v.sty, engine.BadgeForStatus(c.Status), c.Status)
		when := ""
		if !c.Timestamp.IsZero() {
			when = humanize.RelTime(c.Timestamp, v.now(), "ago", "from now")
		}
		lines = append(lines, "  "+
			badge+strings.Repeat(" ", max(0, 8-lipgloss.Width(badge)))+
			v.sty.TableRow.Render(padRight(c.Method, 8))+
			v.sty.TableRow.Render(padRight(truncate(c.Endpoint, 27), 28))+
			v.sty.TableRow.Render(padRight(c.IP, 16))+
			v.sty.Dim.Render(when))
	}
	return strings.Join(lines, "\n")
}

func (v DetailView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	return helpStyle.Render(fmt.Sprintf("  %s to go back", keyStyle.Render("[esc]")))
}
