package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
)

// Inbound message types.
const (
	MsgJoinGame   = "JOIN_GAME"
	MsgJoinTeam   = "JOIN_TEAM"
	MsgLeaveTeam  = "LEAVE_TEAM"
	MsgTeamUpdate = "TEAM_UPDATE"
	MsgStartGame  = "START_GAME"
	MsgGameMove   = "GAME_MOVE"
)

// Outbound message types.
const (
	MsgJoinGameSuccess  = "JOIN_GAME_SUCCESS"
	MsgJoinGameError    = "JOIN_GAME_ERROR"
	MsgPlayerJoined     = "PLAYER_JOINED"
	MsgPlayerLeft       = "PLAYER_LEFT"
	MsgGameStarted      = "GAME_STARTED"
	MsgTeamUpdated      = "TEAM_UPDATED"
	MsgJoinTeamSuccess  = "JOIN_TEAM_SUCCESS"
	MsgLeaveTeamSuccess = "LEAVE_TEAM_SUCCESS"
	MsgError            = "ERROR"
)

// Stable error codes carried in error payloads.
const (
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeGameFull          = "GAME_FULL"
	CodeSlotNotFound      = "SLOT_NOT_FOUND"
	CodeSlotOccupied      = "SLOT_OCCUPIED"
	CodeNotYourTurn       = "NOT_YOUR_TURN"
	CodeGameNotInProgress = "GAME_NOT_IN_PROGRESS"
	CodeInvalidTeam       = "INVALID_TEAM"
	CodeInvalidJSON       = "INVALID_JSON"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Envelope is the inbound message frame.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ErrorPayload is the body of every error reply.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type joinGameData struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

type joinTeamData struct {
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	Team     engine.Team `json:"team"`
}

type leaveTeamData struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type gameRefData struct {
	GameID string `json:"gameId"`
}

type gameMoveData struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	SlotID   string `json:"slotId"`
}

// Dispatcher routes inbound protocol messages to game service operations and
// turns the results into replies and room broadcasts. Every failure is
// converted into an error reply to the originating connection; nothing a
// client sends can crash the dispatcher or drop other connections.
type Dispatcher struct {
	service service.GameService
	hub     *Hub
}

// NewDispatcher wires a dispatcher to the service layer. Attach it to its
// hub afterwards with SetHub.
func NewDispatcher(svc service.GameService) *Dispatcher {
	return &Dispatcher{service: svc}
}

// SetHub attaches the hub used for room broadcasts.
func (d *Dispatcher) SetHub(hub *Hub) {
	d.hub = hub
}

// Dispatch handles one raw inbound frame from a client connection.
func (d *Dispatcher) Dispatch(client *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		client.Send(MsgError, &ErrorPayload{
			Code:    CodeInvalidJSON,
			Message: "message is not valid JSON",
			Details: err.Error(),
		})
		return
	}

	ctx := context.Background()

	switch env.Type {
	case MsgJoinGame:
		d.handleJoinGame(ctx, client, env.Data)
	case MsgJoinTeam:
		d.handleJoinTeam(ctx, client, env.Data)
	case MsgLeaveTeam:
		d.handleLeaveTeam(ctx, client, env.Data)
	case MsgTeamUpdate:
		d.handleTeamUpdate(ctx, client, env.Data)
	case MsgStartGame:
		d.handleStartGame(ctx, client, env.Data)
	case MsgGameMove:
		d.handleGameMove(ctx, client, env.Data)
	default:
		client.Send(MsgError, &ErrorPayload{
			Code:    CodeInvalidJSON,
			Message: "unknown message type: " + env.Type,
		})
	}
}

func (d *Dispatcher) handleJoinGame(ctx context.Context, client *Client, data json.RawMessage) {
	var req joinGameData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	result, err := d.service.JoinGame(ctx, req.GameID, req.PlayerName)
	if err != nil {
		log.Printf("Join game %s failed: %v", req.GameID, err)
		payload := errorPayload(err)
		client.Send(MsgJoinGameError, payload)
		return
	}

	// The joining connection becomes part of the game's room before the
	// broadcast, so it also sees subsequent room traffic.
	d.hub.Subscribe(client, req.GameID)
	client.Send(MsgJoinGameSuccess, result)
	d.hub.BroadcastToGame(req.GameID, MsgPlayerJoined, result)
}

func (d *Dispatcher) handleJoinTeam(ctx context.Context, client *Client, data json.RawMessage) {
	var req joinTeamData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	game, err := d.service.JoinTeam(ctx, req.GameID, req.PlayerID, req.Team)
	if err != nil {
		log.Printf("Join team %s in game %s failed: %v", req.Team, req.GameID, err)
		client.Send(MsgError, errorPayload(err))
		return
	}

	client.Send(MsgJoinTeamSuccess, game)
	d.hub.BroadcastToGame(req.GameID, MsgTeamUpdated, game)
}

func (d *Dispatcher) handleLeaveTeam(ctx context.Context, client *Client, data json.RawMessage) {
	var req leaveTeamData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	game, err := d.service.LeaveTeam(ctx, req.GameID, req.PlayerID)
	if err != nil {
		log.Printf("Leave team in game %s failed: %v", req.GameID, err)
		client.Send(MsgError, errorPayload(err))
		return
	}

	client.Send(MsgLeaveTeamSuccess, game)
	d.hub.BroadcastToGame(req.GameID, MsgTeamUpdated, game)
}

func (d *Dispatcher) handleTeamUpdate(ctx context.Context, client *Client, data json.RawMessage) {
	var req gameRefData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	game, err := d.service.GetGame(ctx, req.GameID)
	if err != nil {
		log.Printf("Team update for game %s failed: %v", req.GameID, err)
		client.Send(MsgError, errorPayload(err))
		return
	}

	client.Send(MsgTeamUpdated, game)
}

func (d *Dispatcher) handleStartGame(ctx context.Context, client *Client, data json.RawMessage) {
	var req gameRefData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	game, err := d.service.StartGame(ctx, req.GameID)
	if err != nil {
		// A start against an unknown game is dropped quietly; lobby clients
		// re-request state on reconnect anyway.
		if errors.Is(err, service.ErrGameNotFound) {
			log.Printf("Start requested for unknown game %s", req.GameID)
			return
		}
		log.Printf("Start game %s failed: %v", req.GameID, err)
		client.Send(MsgError, errorPayload(err))
		return
	}

	d.hub.BroadcastToGame(req.GameID, MsgGameStarted, game)
}

func (d *Dispatcher) handleGameMove(ctx context.Context, client *Client, data json.RawMessage) {
	var req gameMoveData
	if err := json.Unmarshal(data, &req); err != nil {
		client.Send(MsgError, invalidData(err))
		return
	}

	result, err := d.service.ApplyMove(ctx, req.GameID, req.PlayerID, req.SlotID)
	if err != nil {
		log.Printf("Move by %s in game %s failed: %v", req.PlayerID, req.GameID, err)
		client.Send(MsgError, errorPayload(err))
		return
	}

	d.hub.BroadcastToGame(req.GameID, MsgGameMove, result)
}

func invalidData(err error) *ErrorPayload {
	return &ErrorPayload{
		Code:    CodeInvalidJSON,
		Message: "message data has the wrong shape",
		Details: err.Error(),
	}
}

// errorPayload maps a service or engine failure to its stable wire code.
func errorPayload(err error) *ErrorPayload {
	payload := &ErrorPayload{Message: err.Error()}

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		payload.Code = CodeGameNotFound
	case errors.Is(err, engine.ErrPlayerNotFound):
		payload.Code = CodePlayerNotFound
	case errors.Is(err, service.ErrGameFull):
		payload.Code = CodeGameFull
	case errors.Is(err, engine.ErrSlotNotFound), errors.Is(err, engine.ErrCornerSlot):
		payload.Code = CodeSlotNotFound
	case errors.Is(err, engine.ErrSlotOccupied):
		payload.Code = CodeSlotOccupied
	case errors.Is(err, engine.ErrNotYourTurn):
		payload.Code = CodeNotYourTurn
	case errors.Is(err, engine.ErrNotInProgress), errors.Is(err, engine.ErrAlreadyStarted),
		errors.Is(err, engine.ErrNotEnoughPlayers):
		payload.Code = CodeGameNotInProgress
	case errors.Is(err, service.ErrInvalidTeam):
		payload.Code = CodeInvalidTeam
	case errors.Is(err, service.ErrPersistence):
		payload.Code = CodeDatabaseError
	case errors.Is(err, service.ErrHostNameRequired), errors.Is(err, service.ErrPlayerNameRequired),
		errors.Is(err, service.ErrInvalidPatch):
		payload.Code = CodeInvalidJSON
	default:
		payload.Code = CodeInternalError
	}
	return payload
}
