package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/escaperoom/game/engine"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

const maxIDAttempts = 5

// entry guards one session. The manager lock only protects the map.
type entry struct {
	mu      sync.Mutex
	session *service.Session
}

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*entry
	mu       sync.RWMutex
	newID    func() string
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		newID:    uuid.NewString,
	}
}

// Create creates a new session in the given room with a fresh random ID
func (m *Manager) Create(room *engine.Room, now time.Time) (*service.Session, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		session, err := m.CreateWithID(m.newID(), room, now)
		if errors.Is(err, ErrSessionAlreadyExists) {
			continue
		}
		return session, err
	}
	return nil, fmt.Errorf("failed to generate a unique session ID after %d attempts", maxIDAttempts)
}

// CreateWithID creates a new session with the given ID
func (m *Manager) CreateWithID(id string, room *engine.Room, now time.Time) (*service.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(room, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	session := &service.Session{
		ID:             id,
		Room:           room,
		Engine:         eng,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}
	m.sessions[key] = &entry{session: session}

	return session, nil
}

// Update runs fn with exclusive access to the session (case-insensitive ID).
// Errors returned by fn are passed through unchanged.
func (m *Manager) Update(id string, fn func(*service.Session) error) error {
	e, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.session)
}

// Range calls fn for every session, holding each session's lock during its call
func (m *Manager) Range(fn func(*service.Session)) {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		fn(e.session)
		e.mu.Unlock()
	}
}

// Exists reports whether a session is known
func (m *Manager) Exists(id string) bool {
	_, ok := m.lookup(id)
	return ok
}

// Count returns the number of sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[strings.ToLower(id)]
	return e, ok
}
