package service

import (
	"context"
	"sync"
	"time"

	"github.com/seqboard/sequence-server/game/engine"
)

// GameService defines all game-related operations exposed to transports.
type GameService interface {
	// Registry operations
	CreateGame(ctx context.Context, req CreateGameRequest) (*engine.Game, error)
	GetGame(ctx context.Context, gameID string) (*engine.Game, error)
	ListGames(ctx context.Context) ([]*engine.Game, error)
	UpdateGame(ctx context.Context, gameID string, patch GamePatch) (*engine.Game, error)

	// Roster and team operations
	JoinGame(ctx context.Context, gameID, playerName string) (*JoinResult, error)
	JoinTeam(ctx context.Context, gameID, playerID string, team engine.Team) (*engine.Game, error)
	LeaveTeam(ctx context.Context, gameID, playerID string) (*engine.Game, error)

	// Turn engine operations
	StartGame(ctx context.Context, gameID string) (*engine.Game, error)
	ApplyMove(ctx context.Context, gameID, playerID, slotID string) (*MoveResult, error)
}

// GameManager defines session storage operations.
type GameManager interface {
	Create(game *engine.Game) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	Save(id string) error
}

// PresetManager hands out rule presets for new games.
type PresetManager interface {
	LoadPreset(name string) (*Preset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *Preset
	SavePreset(name string, preset *Preset) error
}

// Session wraps one live game record with registry metadata. The mutex
// serializes mutating operations per game: two moves on the same game are
// applied one after the other, while games under different sessions proceed
// in parallel.
type Session struct {
	Game           *engine.Game
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock takes the per-game write lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-game write lock.
func (s *Session) Unlock() { s.mu.Unlock() }
