package service

import "errors"

// Registry failure taxonomy. Transports map these to stable wire codes; the
// turn-engine failures live in the engine package.
var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyExists  = errors.New("game already exists")
	ErrGameFull           = errors.New("game is full")
	ErrInvalidTeam        = errors.New("invalid team")
	ErrHostNameRequired   = errors.New("host name is required")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrInvalidPatch       = errors.New("invalid game patch")
	ErrPersistence        = errors.New("persistence failure")
)
