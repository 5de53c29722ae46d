package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/components"
	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
)

// Column widths for the endpoint table.
const (
	colEndpoint = 14
	colCount    = 6
	colRate     = 6
	colBarMin   = 6
)

// DashboardView is the main monitoring view: distance, endpoint statistics,
// schedule and server log panels in a two-by-two grid.
type DashboardView struct {
	theme     styles.Theme
	sty       *styles.Styles
	state     *engine.State
	width     int
	height    int
	logOffset int // scroll offset into LogView
}

// NewDashboardView creates a new DashboardView with the given theme.
func NewDashboardView(theme styles.Theme) DashboardView {
	return DashboardView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// Update scrolls the log panel.
func (v DashboardView) Update(msg tea.Msg) (DashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.logOffset > 0 {
				v.logOffset--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.logOffset < v.maxLogOffset() {
				v.logOffset++
			}
		}
	}
	return v, nil
}

// SetState replaces the rendered state and clamps the log scroll offset.
func (v *DashboardView) SetState(st *engine.State) {
	v.state = st
	if v.logOffset > v.maxLogOffset() {
		v.logOffset = v.maxLogOffset()
	}
}

// SetSize updates the available dimensions for the view.
func (v *DashboardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the dashboard view.
func (v DashboardView) View() string {
	if v.state == nil {
		return v.renderEmpty()
	}

	leftW := v.width / 2
	rightW := v.width - leftW
	topH := v.height / 2
	if topH < 8 {
		topH = 8
	}
	bottomH := v.height - topH
	if bottomH < 6 {
		bottomH = 6
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		v.panel("Distance", v.distanceLines(leftW-4, topH-3), leftW, topH),
		v.panel("Endpoints", v.endpointLines(rightW-4), rightW, topH),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		v.panel("Schedule", v.scheduleLines(leftW-4), leftW, bottomH),
		v.panel(v.logTitle(), v.logLines(rightW-4, bottomH-3), rightW, bottomH),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// panel draws a bordered box of the given outer size with a title row.
func (v DashboardView) panel(title string, lines []string, width, height int) string {
	innerH := height - 3
	if innerH < 0 {
		innerH = 0
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	body := append([]string{v.sty.PanelTitle.Render(title)}, lines...)
	return v.sty.Panel.
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(body, "\n"))
}

func (v DashboardView) distanceLines(width, height int) []string {
	latest, ok := v.state.Latest()
	if !ok {
		return []string{v.sty.Dim.Render("no readings yet")}
	}

	statusStyle := v.sty.Stable
	if latest.Status() == engine.DistanceChanging {
		statusStyle = v.sty.Changing
	}
	lines := []string{
		v.sty.Text.Bold(true).Render(components.FormatDistance(latest.Current)) +
			"  " + statusStyle.Render(string(latest.Status())),
	}
	if drift, ok := latest.Drift(); ok {
		lines = append(lines, v.sty.Dim.Render("drift ")+v.sty.Text.Render(components.FormatDrift(drift)))
	}
	if latest.Initial != nil {
		lines = append(lines, v.sty.Dim.Render("initial ")+v.sty.Text.Render(components.FormatDistance(*latest.Initial)))
	}

	data := distanceSeries(v.state.DistanceHistory)
	sparkRows := height - len(lines) - 1
	if sparkRows > 0 && len(data) > 0 {
		lines = append(lines, "", v.sty.Sparkline.Render(components.Sparkline(data, width)))
		lines = append(lines, v.sty.Dim.Render(fmt.Sprintf("%d readings", len(data))))
	}
	return lines
}

func (v DashboardView) endpointLines(width int) []string {
	stats := engine.SortedStats(v.state.EndpointStats)
	if len(stats) == 0 {
		return []string{v.sty.Dim.Render("no API calls yet")}
	}

	bar := width - colEndpoint - 3*colCount - colRate
	if bar < colBarMin {
		bar = colBarMin
	}
	hdr := v.sty.TableHeader
	lines := []string{
		hdr.Render(padRight("Endpoint", colEndpoint)) +
			hdr.Render(padLeft("Total", colCount)) +
			hdr.Render(padLeft("OK", colCount)) +
			hdr.Render(padLeft("Err", colCount)) +
			hdr.Render(padLeft("Rate", colRate)) + " ",
	}
	for _, s := range stats {
		rateStyle := lipgloss.NewStyle().Foreground(v.theme.Base0B)
		switch {
		case s.SuccessRatePercent < 50:
			rateStyle = lipgloss.NewStyle().Foreground(v.theme.Base08)
		case s.SuccessRatePercent < 90:
			rateStyle = lipgloss.NewStyle().Foreground(v.theme.Base0A)
		}
		lines = append(lines,
			v.sty.TableRow.Render(padRight(truncate(s.Endpoint, colEndpoint-1), colEndpoint))+
				v.sty.TableRow.Render(padLeft(fmt.Sprint(s.Total), colCount))+
				v.sty.TableRow.Render(padLeft(fmt.Sprint(s.SuccessCount), colCount))+
				v.sty.TableRow.Render(padLeft(fmt.Sprint(s.ErrorCount), colCount))+
				rateStyle.Render(padLeft(fmt.Sprintf("%d%%", s.SuccessRatePercent), colRate))+" "+
				rateStyle.Render(components.SuccessBar(s.SuccessRatePercent, bar-1)),
		)
	}
	return lines
}

func (v DashboardView) scheduleLines(width int) []string {
	if len(v.state.ScheduleView) == 0 {
		return []string{v.sty.Dim.Render("no schedules")}
	}
	var lines []string
	for _, e := range v.state.ScheduleView {
		head := v.sty.Text.Bold(true).Render(truncate(e.Primary, width))
		lines = append(lines, head)

		var meta []string
		if e.Time != "" {
			meta = append(meta, e.Time)
		}
		if e.TargetTime != "" {
			meta = append(meta, "target "+e.TargetTime)
		}
		detail := v.sty.Dim.Render(truncate(strings.Join(meta, "  "), width/2))
		itemStyle := v.sty.Dim
		if e.HasItems() {
			itemStyle = v.sty.Items
		}
		lines = append(lines, "  "+detail+" "+itemStyle.Render(truncate("items: "+e.RequiredItems, width/2)))
	}
	return lines
}

func (v DashboardView) logTitle() string {
	n := 0
	if v.state != nil {
		n = len(v.state.LogView)
	}
	if v.logOffset > 0 {
		return fmt.Sprintf("Server Log (%d, +%d)", n, v.logOffset)
	}
	return fmt.Sprintf("Server Log (%d)", n)
}

func (v DashboardView) logLines(width, height int) []string {
	entries := v.state.LogView
	if len(entries) == 0 {
		return []string{v.sty.Dim.Render("no log lines")}
	}
	if v.logOffset < len(entries) {
		entries = entries[v.logOffset:]
	}
	if height > 0 && len(entries) > height {
		entries = entries[:height]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		prefix := ""
		used := 0
		if e.Category != engine.CategoryNone {
			tag := fmt.Sprintf("%-8s", e.Category)
			prefix += components.CategoryStyle(v.sty, e.Category).Render(tag) + " "
			used += len(tag) + 1
		}
		if e.Badge != engine.BadgeNone {
			badge := components.RenderBadge(v.sty, e.Badge, e.Line.Status)
			prefix += badge + " "
			used += lipgloss.Width(badge) + 1
		}
		lines = append(lines, prefix+v.sty.Text.Render(truncate(singleLine(e.Text), width-used)))
	}
	return lines
}

func (v DashboardView) maxLogOffset() int {
	if v.state == nil || len(v.state.LogView) == 0 {
		return 0
	}
	return len(v.state.LogView) - 1
}

// renderEmpty renders a centered message before any state is available.
func (v DashboardView) renderEmpty() string {
	msgStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center)

	keyStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)

	msg := lipgloss.JoinVertical(lipgloss.Center,
		"",
		msgStyle.Render("No dashboard running"),
		"",
		msgStyle.Render(fmt.Sprintf(
			"Press %s to open one",
			keyStyle.Render("[d]"),
		)),
		"",
	)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}

// distanceSeries extracts the current distances from the history.
func distanceSeries(history []engine.DistanceReading) []float64 {
	if len(history) == 0 {
		return nil
	}
	data := make([]float64, len(history))
	for i, r := range history {
		data[i] = r.Current
	}
	return data
}
