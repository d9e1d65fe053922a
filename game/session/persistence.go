package session

import (
	"time"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
)

// Persistence is the durable key-value store for game records. The registry
// writes through it after every mutation and falls back to it when a game is
// not in memory.
type Persistence interface {
	// Save persists a game session to storage.
	Save(session *service.Session) error

	// Load retrieves a game session from storage by game ID.
	Load(id string) (*service.Session, error)

	// Delete removes a game session from storage.
	Delete(id string) error

	// ListAll returns all persisted game IDs.
	ListAll() ([]string, error)

	// Exists checks if a game exists in storage.
	Exists(id string) bool
}

// PersistedGameData is the JSON document stored per game. Player records are
// embedded in the game's roster, so one document carries the whole session.
type PersistedGameData struct {
	ID             string       `json:"id"`
	CreatedAt      time.Time    `json:"created_at"`
	LastAccessedAt time.Time    `json:"last_accessed_at"`
	Game           *engine.Game `json:"game"`
}
