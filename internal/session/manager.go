// Package session keeps the games played through the API in memory.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/checkers/pkg/engine"
)

// ErrGameNotFound is returned for an unknown game ID
var ErrGameNotFound = errors.New("game not found")

// Session is one game and its bookkeeping. The game is only touched under
// the session lock, through Manager.With; the usage fields are atomic so
// the manager can read them without waiting on that lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	lastUsed atomic.Int64 // unix nanoseconds
	active   atomic.Int32 // With calls in flight

	mu   sync.Mutex
	game *engine.Game
}

// UpdatedAt returns when the game was last used
func (s *Session) UpdatedAt() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch(t time.Time) {
	s.lastUsed.Store(t.UnixNano())
}

// idleSince reports whether nobody is using the game and its last use
// was before cutoff
func (s *Session) idleSince(cutoff time.Time) bool {
	return s.active.Load() == 0 && s.UpdatedAt().Before(cutoff)
}

// Manager stores sessions by ID
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new game and returns its session ID
func (m *Manager) Create(g *engine.Game) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		game:      g,
	}
	s.touch(now)
	m.sessions[s.ID] = s
	return s.ID
}

func (m *Manager) get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// With runs fn with exclusive access to the game
func (m *Manager) With(id string, fn func(g *engine.Game) error) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	s.active.Add(1)
	defer s.active.Add(-1)

	s.mu.Lock()
	defer s.mu.Unlock()
	err = fn(s.game)
	s.touch(time.Now())
	return err
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune removes sessions idle for longer than maxIdle and returns how many
// were removed. Games in use are never removed, and Prune does not wait
// for them.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, id := range stale {
		// Recheck: the game may have been used or deleted since the scan
		if s, ok := m.sessions[id]; ok && s.idleSince(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
