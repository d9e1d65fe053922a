package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
)

// ErrInvalidGameID is returned when a caller tries to register a game with an
// empty ID.
var ErrInvalidGameID = errors.New("invalid game ID")

// Manager is the in-memory side of the session registry: it maps game IDs to
// live sessions and writes through the persistence layer when one is
// configured. The map lock only guards lookups; mutation of an individual
// game is serialized by that session's own lock.
type Manager struct {
	sessions    map[string]*service.Session
	persistence Persistence
	mu          sync.RWMutex
}

// NewManager creates a registry with no durable backing.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a registry backed by a durable store.
func NewManagerWithPersistence(persistence Persistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// Create registers a new game record and persists it. The game must carry a
// non-empty ID; the registry never invents identities.
func (m *Manager) Create(game *engine.Game) (*service.Session, error) {
	if game == nil || game.ID == "" {
		return nil, ErrInvalidGameID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[game.ID]; exists {
		return nil, service.ErrGameAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		Game:           game,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	m.sessions[game.ID] = session

	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			return nil, fmt.Errorf("failed to persist game %s: %w", game.ID, err)
		}
	}

	return session, nil
}

// Get retrieves a session by game ID, loading it from persistence when it is
// not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		session, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted game: %w", err)
		}

		m.mu.Lock()
		// Another goroutine may have loaded it first; keep that copy so all
		// callers share one session per game.
		if existing, ok := m.sessions[id]; ok {
			m.mu.Unlock()
			return existing, nil
		}
		m.sessions[id] = session
		m.mu.Unlock()

		return session, nil
	}

	return nil, service.ErrGameNotFound
}

// List returns all sessions currently in memory.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// Delete removes a session from memory and from the durable store.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, inMemory := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted game: %w", err)
		}
		return nil
	}

	if !inMemory {
		return service.ErrGameNotFound
	}
	return nil
}

// DeleteFromMemory drops a session from memory only, leaving any persisted
// copy alone.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return service.ErrGameNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Save writes one session through to the durable store and stamps its access
// time.
func (m *Manager) Save(id string) error {
	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return service.ErrGameNotFound
	}

	session.LastAccessedAt = time.Now()

	if m.persistence == nil {
		return nil
	}
	return m.persistence.Save(session)
}

// Count returns the number of sessions in memory.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedGames brings every persisted game into memory. Called once on
// startup so rosters and boards survive a restart.
func (m *Manager) LoadPersistedGames() (int, error) {
	if m.persistence == nil {
		return 0, nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list persisted games: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	var firstErr error
	for _, id := range ids {
		if _, exists := m.sessions[id]; exists {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to load game %s: %w", id, err)
			}
			continue
		}

		m.sessions[id] = session
		loaded++
	}

	return loaded, firstErr
}

// PruneDeleted drops in-memory sessions whose persisted files are gone,
// keeping memory in step with out-of-band deletions. Returns the IDs pruned.
func (m *Manager) PruneDeleted() []string {
	if m.persistence == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned []string
	for id := range m.sessions {
		if !m.persistence.Exists(id) {
			delete(m.sessions, id)
			pruned = append(pruned, id)
		}
	}
	return pruned
}
