package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tonhe/iotmon/internal/dashboard"
)

// Manager coordinates multiple Sessions, one per dashboard name.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []Option
	wg       sync.WaitGroup
}

// NewManager creates an empty Manager. opts are applied to every session it
// starts.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Start creates and launches a Session for the given dashboard. Extra opts
// override the manager's defaults for this session only.
func (m *Manager) Start(dash *dashboard.Dashboard, opts ...Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[dash.Name]; exists {
		return fmt.Errorf("session %q already running", dash.Name)
	}

	all := append(append([]Option{}, m.opts...), opts...)
	s := NewSession(dash, all...)
	m.sessions[dash.Name] = s

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		s.Run(context.Background())
	}()
	return nil
}

// Stop halts the Session for the named dashboard and removes it.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[name]
	if !ok {
		return fmt.Errorf("session %q not found", name)
	}

	s.Stop()
	delete(m.sessions, name)
	return nil
}

// Get returns the named session.
func (m *Manager) Get(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[name]
	if !ok {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return s, nil
}

// GetState returns the latest published state for the named dashboard.
func (m *Manager) GetState(name string) (*State, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	return s.State(), nil
}

// Subscribe returns a channel that receives events for the named dashboard.
func (m *Manager) Subscribe(name string) (<-chan Event, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	return s.Subscribe(), nil
}

// Unsubscribe releases a channel from Subscribe.
func (m *Manager) Unsubscribe(name string, ch <-chan Event) error {
	s, err := m.Get(name)
	if err != nil {
		return err
	}
	s.Unsubscribe(ch)
	return nil
}

// Refresh requests an immediate pass for the named dashboard. It reports
// whether the request got past the throttle.
func (m *Manager) Refresh(name string) (bool, error) {
	s, err := m.Get(name)
	if err != nil {
		return false, err
	}
	return s.Refresh(), nil
}

// ListSessions returns summary info for all sessions, sorted by name.
func (m *Manager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked()
}

// TryListSessions is ListSessions without blocking. It returns false when
// the manager is busy starting or stopping sessions.
func (m *Manager) TryListSessions() ([]SessionInfo, bool) {
	if !m.mu.TryRLock() {
		return nil, false
	}
	defer m.mu.RUnlock()
	return m.listLocked(), true
}

func (m *Manager) listLocked() []SessionInfo {
	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// StopAll halts and removes all sessions and waits for their loops to exit.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, s := range m.sessions {
		s.Stop()
		delete(m.sessions, name)
	}
	m.mu.Unlock()
	m.wg.Wait()
}
