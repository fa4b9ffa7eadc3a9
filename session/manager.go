package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/config"
)

// ErrSessionNotFound is returned for unknown or closed session ids.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the open sessions.
type Manager struct {
	gen Generator
	cfg *config.Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty registry whose sessions use gen and cfg.
func NewManager(gen Generator, cfg *config.Config) *Manager {
	return &Manager{gen: gen, cfg: cfg, sessions: make(map[string]*Session)}
}

// Create opens a new session with a random id.
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.gen, m.cfg)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close forgets a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// IDs lists open session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
