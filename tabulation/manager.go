package tabulation

import (
	"context"
	"sync"
	"time"
)

type sessionKey struct {
	judgeID    string
	categoryID int
}

// Manager caches one live Session per (judge, category). Each judge's session
// mutates only that judge's cells; the remote store is the only thing shared
// across judges.
type Manager struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session

	stores        SessionStores
	autosaveDelay time.Duration
}

func NewManager(stores SessionStores, autosaveDelay time.Duration) *Manager {
	return &Manager{
		sessions:      make(map[sessionKey]*Session),
		stores:        stores,
		autosaveDelay: autosaveDelay,
	}
}

// Session returns the cached session for the judge and category, loading it
// from the remote store on first use.
func (m *Manager) Session(ctx context.Context, judgeID string, categoryID int) (*Session, error) {
	key := sessionKey{judgeID, categoryID}

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s, err := LoadSession(ctx, judgeID, categoryID, m.stores, m.autosaveDelay)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.sessions[key]; ok {
		s.Close()
		return cached, nil
	}
	m.sessions[key] = s
	return s, nil
}

// Invalidate drops a cached session so the next access reloads from the
// remote store. This is the refresh path; there is no live subscription to
// other judges' writes.
func (m *Manager) Invalidate(judgeID string, categoryID int) {
	key := sessionKey{judgeID, categoryID}
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Stores exposes the manager's store handles for read-side consumers.
func (m *Manager) Stores() SessionStores { return m.stores }
