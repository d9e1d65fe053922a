package service

import (
	"github.com/seqboard/sequence-server/game/engine"
)

// CreateGameRequest carries everything needed to open a new game.
type CreateGameRequest struct {
	HostName   string          `json:"hostName"`
	MaxPlayers int             `json:"maxPlayers,omitempty"`
	Preset     string          `json:"preset,omitempty"`
	Settings   engine.Settings `json:"gameSettings,omitempty"`
}

// GamePatch enumerates the only fields external callers may update on an
// existing game. Nil fields are left untouched.
type GamePatch struct {
	MaxPlayers *int            `json:"maxPlayers,omitempty"`
	Settings   engine.Settings `json:"gameSettings,omitempty"`
}

// JoinResult is the outcome of adding a player to a game.
type JoinResult struct {
	Game   *engine.Game   `json:"game"`
	Player *engine.Player `json:"player"`
}

// MoveResult is the outcome of one applied move, for replies and broadcast.
type MoveResult struct {
	Game    *engine.Game        `json:"game"`
	Outcome *engine.MoveOutcome `json:"outcome"`
}

// Preset is a named rule configuration games can be created from.
type Preset struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	HandSize    int             `json:"handSize"`
	MaxPlayers  int             `json:"maxPlayers"`
	Settings    engine.Settings `json:"gameSettings"`
}

// PresetInfo summarizes an available preset.
type PresetInfo struct {
	Filename    string `json:"filename"`
	PresetID    string `json:"preset_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HandSize    int    `json:"hand_size"`
	MaxPlayers  int    `json:"max_players"`
}
