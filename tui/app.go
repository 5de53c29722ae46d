package tui

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/tonhe/iotmon/internal/config"
	"github.com/tonhe/iotmon/internal/dashboard"
	"github.com/tonhe/iotmon/internal/engine"
	"github.com/tonhe/iotmon/tui/components"
	"github.com/tonhe/iotmon/tui/keys"
	"github.com/tonhe/iotmon/tui/styles"
	"github.com/tonhe/iotmon/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateDashboard AppState = iota
	StateSwitcher
	StateDetail
	StateSettings
)

// flashDuration is how long a status bar message stays visible.
const flashDuration = 3 * time.Second

// eventWait bounds how long one subscription read blocks, so a waiter on a
// stopped session does not linger.
const eventWait = 5 * time.Second

// TickMsg triggers a periodic UI refresh.
type TickMsg time.Time

// eventMsg carries a session event. gen ties it to the subscription that
// produced it; events from an older subscription are ignored.
type eventMsg struct {
	gen   int
	event engine.Event
	ok    bool
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state     AppState
	themeSlug string
	theme     styles.Theme
	config    *config.Config
	manager   *engine.Manager
	log       logrus.FieldLogger
	dashDir   string
	version   string

	dashboard views.DashboardView
	detail    views.DetailView
	switcher  views.SwitcherView
	help      views.HelpView
	settings  views.SettingsView
	cfgPath   string

	width  int
	height int

	activeDash string
	current    *engine.State
	events     <-chan engine.Event
	eventsDash string
	gen        int

	flash      string
	flashUntil time.Time
	now        func() time.Time
}

// Options configures an AppModel beyond the config and manager.
type Options struct {
	// Active is the dashboard shown first. It must already be started.
	Active string
	// DashboardsDir is scanned by the switcher.
	DashboardsDir string
	// ConfigPath is where the settings screen saves; empty disables saving.
	ConfigPath string
	Version       string
	Logger        logrus.FieldLogger
}

// NewAppModel creates a new AppModel with the given config and engine manager.
func NewAppModel(cfg *config.Config, mgr *engine.Manager, opts Options) AppModel {
	slug := cfg.Theme
	if _, ok := styles.Lookup(slug); !ok {
		slug = styles.DefaultSlug
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	m := AppModel{
		state:      StateDashboard,
		config:     cfg,
		manager:    mgr,
		log:        log,
		dashDir:    opts.DashboardsDir,
		cfgPath:    opts.ConfigPath,
		version:    opts.Version,
		activeDash: opts.Active,
		now:        time.Now,
	}
	m.applyTheme(slug)
	if m.activeDash != "" {
		m.subscribe()
	}
	return m
}

// Init starts the tick loop and the first subscription read.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForEvent(m.gen, m.events))
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForEvent reads one event from ch. A nil channel yields no command.
func waitForEvent(gen int, ch <-chan engine.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return eventMsg{gen: gen, event: ev, ok: true}
		case <-time.After(eventWait):
			return eventMsg{gen: gen}
		}
	}
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		m.pullState()
		if m.state == StateSwitcher {
			m.switcher.Refresh(m.dashDir, m.manager)
		}
		if m.flash != "" && m.now().After(m.flashUntil) {
			m.flash = ""
		}
		return m, tickCmd()

	case eventMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.ok && msg.event.DashboardName == m.activeDash {
			m.setState(msg.event.State)
		}
		return m, waitForEvent(m.gen, m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Settings owns the keyboard so letters reach its text inputs.
	if m.state == StateSettings {
		if msg.Type == tea.KeyCtrlC {
			m.manager.StopAll()
			return m, tea.Quit
		}
		var action views.SettingsAction
		var cmd tea.Cmd
		m.settings, cmd, action = m.settings.Update(msg)
		switch action {
		case views.SettingsClose:
			m.state = StateDashboard
		case views.SettingsSaved:
			m.applyTheme(m.settings.SavedTheme)
			m.setFlash("settings saved")
			m.log.WithField("theme", m.themeSlug).Info("settings saved")
			m.state = StateDashboard
		}
		return m, cmd
	}

	if m.help.IsVisible() {
		if key.Matches(msg, keys.DefaultKeyMap.Help) || key.Matches(msg, keys.DefaultKeyMap.Escape) {
			m.help.Toggle()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Quit):
		m.manager.StopAll()
		return m, tea.Quit
	case key.Matches(msg, keys.DefaultKeyMap.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, keys.DefaultKeyMap.Theme):
		m.applyTheme(styles.NextTheme(m.themeSlug))
		m.setFlash("theme: " + m.themeSlug)
		return m, nil
	}

	switch m.state {
	case StateDashboard:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Dashboard):
			m.switcher.Refresh(m.dashDir, m.manager)
			m.state = StateSwitcher
			return m, nil
		case key.Matches(msg, keys.DefaultKeyMap.Refresh):
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.DefaultKeyMap.Settings):
			m.settings = views.NewSettingsView(m.theme, m.config, m.cfgPath)
			m.settings.SetSize(m.width, m.height-3)
			m.state = StateSettings
			return m, textinput.Blink
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			if m.current != nil {
				m.state = StateDetail
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd

	case StateDetail:
		if key.Matches(msg, keys.DefaultKeyMap.Refresh) {
			m.refresh()
			return m, nil
		}
		var back bool
		var cmd tea.Cmd
		m.detail, cmd, back = m.detail.Update(msg)
		if back {
			m.state = StateDashboard
		}
		return m, cmd

	case StateSwitcher:
		var action views.SwitcherAction
		var cmd tea.Cmd
		m.switcher, cmd, action = m.switcher.Update(msg)
		switch action {
		case views.ActionClose:
			m.state = StateDashboard
		case views.ActionSwitch:
			if item := m.switcher.SelectedItem(); item != nil {
				cmd = m.switchTo(*item)
			}
		case views.ActionStop:
			if item := m.switcher.SelectedItem(); item != nil {
				m.stop(item.Name)
			}
		}
		return m, cmd
	}
	return m, nil
}

// switchTo starts the dashboard if needed and makes it active.
func (m *AppModel) switchTo(item views.SwitcherItem) tea.Cmd {
	if !item.Running {
		dash, err := dashboard.LoadDashboard(filepath.Join(m.dashDir, item.Name+".toml"))
		if err != nil {
			m.log.WithError(err).WithField("dashboard", item.Name).Warn("load dashboard failed")
			m.setFlash("cannot load " + item.Name)
			return nil
		}
		if err := m.manager.Start(dash); err != nil {
			m.log.WithError(err).WithField("dashboard", item.Name).Warn("start dashboard failed")
			m.setFlash(err.Error())
			return nil
		}
		m.log.WithField("dashboard", item.Name).Info("dashboard started")
	}
	m.activeDash = item.Name
	m.state = StateDashboard
	m.setState(nil)
	m.subscribe()
	m.pullState()
	return waitForEvent(m.gen, m.events)
}

func (m *AppModel) stop(name string) {
	if err := m.manager.Stop(name); err != nil {
		m.setFlash(err.Error())
		return
	}
	m.log.WithField("dashboard", name).Info("dashboard stopped")
	if name == m.activeDash {
		m.activeDash = ""
		m.unsubscribe()
		m.setState(nil)
	}
	m.switcher.Refresh(m.dashDir, m.manager)
}

func (m *AppModel) refresh() {
	if m.activeDash == "" {
		return
	}
	accepted, err := m.manager.Refresh(m.activeDash)
	switch {
	case err != nil:
		m.setFlash(err.Error())
	case accepted:
		m.setFlash("refreshing")
	default:
		m.setFlash("refresh throttled")
	}
}

// subscribe opens a new subscription on the active dashboard and
// invalidates any pending read on the previous one.
func (m *AppModel) subscribe() {
	m.unsubscribe()
	ch, err := m.manager.Subscribe(m.activeDash)
	if err != nil {
		m.log.WithError(err).Debug("subscribe failed")
		return
	}
	m.events = ch
	m.eventsDash = m.activeDash
}

// unsubscribe releases the current subscription, if any. The session may
// already have been stopped and removed, so the error is ignored.
func (m *AppModel) unsubscribe() {
	m.gen++
	if m.events != nil {
		_ = m.manager.Unsubscribe(m.eventsDash, m.events)
	}
	m.events = nil
	m.eventsDash = ""
}

// pullState reads the latest published state; it covers events dropped by
// the non-blocking publish.
func (m *AppModel) pullState() {
	if m.activeDash == "" {
		return
	}
	if st, err := m.manager.GetState(m.activeDash); err == nil && st != m.current {
		m.setState(st)
	}
}

func (m *AppModel) setState(st *engine.State) {
	m.current = st
	m.dashboard.SetState(st)
	m.detail.SetState(st)
}

func (m *AppModel) setFlash(s string) {
	m.flash = s
	m.flashUntil = m.now().Add(flashDuration)
}

// applyTheme rebuilds every view for slug, keeping size and state.
func (m *AppModel) applyTheme(slug string) {
	t, ok := styles.Lookup(slug)
	if !ok {
		return
	}
	m.themeSlug = slug
	m.theme = t
	m.config.Theme = slug
	visible := m.help.IsVisible()
	m.dashboard = views.NewDashboardView(m.theme)
	m.detail = views.NewDetailView(m.theme)
	m.switcher = views.NewSwitcherView(m.theme)
	m.help = views.NewHelpView(m.theme)
	if visible {
		m.help.Toggle()
	}
	m.dashboard.SetState(m.current)
	m.detail.SetState(m.current)
	m.resize()
}

func (m *AppModel) resize() {
	// Body height = total - 1 (header) - 2 (status bar lines)
	body := m.height - 3
	m.dashboard.SetSize(m.width, body)
	m.detail.SetSize(m.width, body)
	m.switcher.SetSize(m.width, body)
	m.help.SetSize(m.width, body)
	m.settings.SetSize(m.width, body)
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sessions, ok := m.manager.TryListSessions()
	count := len(sessions)
	if !ok {
		count = 0
	}
	header := components.RenderHeader(m.theme, m.activeDash, m.status(), count, m.width, m.version)

	var body string
	switch {
	case m.help.IsVisible():
		body = m.help.View()
	case m.state == StateSwitcher:
		body = m.switcher.View()
	case m.state == StateDetail:
		body = m.detail.View()
	case m.state == StateSettings:
		body = m.settings.View()
	default:
		body = m.dashboard.View()
	}

	interval := m.config.PollInterval
	if s, err := m.manager.Get(m.activeDash); err == nil {
		interval = s.Dashboard().Interval
	}
	statusBar := components.RenderStatusBar(m.theme, m.current, interval, m.now(), m.flash, m.width)

	bodyHeight := max(1, m.height-3)
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}

func (m AppModel) status() string {
	if m.activeDash == "" {
		return ""
	}
	return m.current.Status()
}
