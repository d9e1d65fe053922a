package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seqboard/sequence-server/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	games   GameManager
	presets PresetManager
	baseURL string
}

// NewGameService creates a new game service instance. baseURL is used to
// build shareable lobby links; pass "" to get relative links.
func NewGameService(games GameManager, presets PresetManager, baseURL string) GameService {
	return &gameServiceImpl{
		games:   games,
		presets: presets,
		baseURL: baseURL,
	}
}

// CreateGame opens a new game in the waiting state with the host as the only
// roster entry. Rules come from the named preset (or the default), with the
// request's settings layered on top.
func (s *gameServiceImpl) CreateGame(ctx context.Context, req CreateGameRequest) (*engine.Game, error) {
	if req.HostName == "" {
		return nil, ErrHostNameRequired
	}

	var preset *Preset
	if req.Preset != "" {
		loaded, err := s.presets.LoadPreset(req.Preset)
		if err != nil {
			return nil, fmt.Errorf("failed to load preset %s: %w", req.Preset, err)
		}
		preset = loaded
	} else {
		preset = s.presets.GetDefault()
	}

	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = preset.MaxPlayers
	}
	maxPlayers = engine.ClampMaxPlayers(maxPlayers)

	settings := engine.DefaultSettings().Merge(preset.Settings).Merge(req.Settings)
	hand := preset.HandSize
	if hand <= 0 {
		hand = engine.DefaultHandSize
	}
	settings["handSize"] = engine.Number(float64(hand))

	now := time.Now()
	gameID := uuid.NewString()
	host := &engine.Player{
		ID:        uuid.NewString(),
		Name:      req.HostName,
		Role:      engine.RoleHost,
		GameID:    gameID,
		Team:      engine.TeamNone,
		Cards:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	game := &engine.Game{
		ID:         gameID,
		Link:       s.baseURL + "/lobby/" + gameID,
		Players:    []*engine.Player{host},
		HostID:     host.ID,
		Status:     engine.StatusWaiting,
		MaxPlayers: maxPlayers,
		Settings:   settings,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.games.Create(game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

// GetGame retrieves a game by ID.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*engine.Game, error) {
	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	return session.Game, nil
}

// ListGames returns every registered game.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*engine.Game, error) {
	sessions := s.games.List()
	games := make([]*engine.Game, 0, len(sessions))
	for _, sess := range sessions {
		games = append(games, sess.Game)
	}
	return games, nil
}

// UpdateGame applies a patch to a waiting game. The player limit can never
// be shrunk below the current roster.
func (s *gameServiceImpl) UpdateGame(ctx context.Context, gameID string, patch GamePatch) (*engine.Game, error) {
	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	if patch.MaxPlayers != nil {
		if game.Status != engine.StatusWaiting {
			return nil, fmt.Errorf("%w: cannot change player limit after start", ErrInvalidPatch)
		}
		limit := engine.ClampMaxPlayers(*patch.MaxPlayers)
		if limit < len(game.Players) {
			return nil, fmt.Errorf("%w: limit %d below roster size %d", ErrInvalidPatch, limit, len(game.Players))
		}
		game.MaxPlayers = limit
	}
	if len(patch.Settings) > 0 {
		game.Settings = game.Settings.Merge(patch.Settings)
	}
	game.UpdatedAt = time.Now()

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return game, nil
}

// JoinGame adds a named player to a waiting game's roster.
func (s *gameServiceImpl) JoinGame(ctx context.Context, gameID, playerName string) (*JoinResult, error) {
	if playerName == "" {
		return nil, ErrPlayerNameRequired
	}

	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	if game.Status != engine.StatusWaiting {
		return nil, engine.ErrAlreadyStarted
	}
	if game.IsFull() {
		return nil, ErrGameFull
	}

	now := time.Now()
	player := &engine.Player{
		ID:        uuid.NewString(),
		Name:      playerName,
		Role:      engine.RolePlayer,
		GameID:    gameID,
		Team:      engine.TeamNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	game.Players = append(game.Players, player)
	game.Players = engine.ArrangeRGB(game.Players)
	game.UpdatedAt = now

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return &JoinResult{Game: game, Player: player}, nil
}

// JoinTeam puts a player on one of the three teams and re-sorts the roster
// so turn order alternates between teams.
func (s *gameServiceImpl) JoinTeam(ctx context.Context, gameID, playerID string, team engine.Team) (*engine.Game, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTeam, team)
	}

	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, engine.ErrPlayerNotFound
	}

	now := time.Now()
	player.Team = team
	player.UpdatedAt = now
	game.Players = engine.ArrangeRGB(game.Players)
	game.UpdatedAt = now

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return game, nil
}

// LeaveTeam clears a player's team assignment.
func (s *gameServiceImpl) LeaveTeam(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	player := game.FindPlayer(playerID)
	if player == nil {
		return nil, engine.ErrPlayerNotFound
	}

	now := time.Now()
	player.Team = engine.TeamNone
	player.UpdatedAt = now
	game.Players = engine.ArrangeRGB(game.Players)
	game.UpdatedAt = now

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return game, nil
}

// StartGame transitions a waiting game into play: builds the board, shuffles
// the double deck, deals every player's hand and hands the turn to the first
// roster entry.
func (s *gameServiceImpl) StartGame(ctx context.Context, gameID string) (*engine.Game, error) {
	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	if err := engine.Start(game, handSize(game.Settings)); err != nil {
		return nil, err
	}

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return game, nil
}

// ApplyMove plays one turn: the acting player claims a board slot with a
// matching hand card, draws a replacement and passes the turn on.
func (s *gameServiceImpl) ApplyMove(ctx context.Context, gameID, playerID, slotID string) (*MoveResult, error) {
	session, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	game := session.Game
	outcome, err := engine.ApplyMove(game, playerID, slotID)
	if err != nil {
		return nil, err
	}

	if err := s.persist(gameID); err != nil {
		return nil, err
	}
	return &MoveResult{Game: game, Outcome: outcome}, nil
}

// persist writes a mutated game through the registry's backing store.
func (s *gameServiceImpl) persist(gameID string) error {
	if err := s.games.Save(gameID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// handSize reads the dealing size out of a game's settings, falling back to
// the standard seven-card hand.
func handSize(s engine.Settings) int {
	if v, ok := s["handSize"]; ok && v.Kind == engine.KindNumber && v.Num > 0 {
		return int(v.Num)
	}
	return engine.DefaultHandSize
}
