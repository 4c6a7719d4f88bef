package session

import (
	"sync"
	"time"

	"bingo/internal/repository"

	"github.com/google/uuid"
)

// Manager hands out one Controller per user, created on first use. This is
// the single owner of session state; nothing session-scoped lives in
// package globals.
type Manager struct {
	mu       sync.Mutex
	store    repository.BoardRepositoryInterface
	quiet    time.Duration
	notify   func(string)
	sessions map[uuid.UUID]*Controller
}

func NewManager(store repository.BoardRepositoryInterface, quiet time.Duration, notify func(string)) *Manager {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Manager{
		store:    store,
		quiet:    quiet,
		notify:   notify,
		sessions: make(map[uuid.UUID]*Controller),
	}
}

// For returns the user's controller, creating it on demand.
func (m *Manager) For(userID uuid.UUID) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[userID]; ok {
		return c
	}
	c := NewController(userID, m.store, m.quiet, m.notify)
	m.sessions[userID] = c
	return c
}

// Drop discards a user's session, stopping its auto-save timers. Called on
// logout.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.sessions[userID]; ok {
		c.Close()
		delete(m.sessions, userID)
	}
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.sessions {
		c.Close()
		delete(m.sessions, id)
	}
}
