package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
	"github.com/seqboard/sequence-server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	presets service.PresetManager
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, presets service.PresetManager, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		presets: presets,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game management
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handlePatchGame).Methods("PATCH")
	api.HandleFunc("/games/{id}/start", s.handleStartGame).Methods("POST")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleCreatePreset).Methods("POST")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Status
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// errorStatus maps a service or engine failure to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, engine.ErrPlayerNotFound),
		errors.Is(err, engine.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, engine.ErrSlotOccupied),
		errors.Is(err, engine.ErrAlreadyStarted),
		errors.Is(err, engine.ErrNotEnoughPlayers),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrNotInProgress):
		return http.StatusConflict
	case errors.Is(err, service.ErrHostNameRequired),
		errors.Is(err, service.ErrPlayerNameRequired),
		errors.Is(err, service.ErrInvalidTeam),
		errors.Is(err, service.ErrInvalidPatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	game, err := s.service.CreateGame(r.Context(), req)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	log.Printf("[API] game %s created by %s (max %d players)", game.ID, req.HostName, game.MaxPlayers)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	status := query.Get("status")  // filter: "waiting", "in-progress", "completed"
	limitStr := query.Get("limit") // number of games to return

	if status != "" {
		filtered := games[:0]
		for _, g := range games {
			if string(g.Status) == status {
				filtered = append(filtered, g)
			}
		}
		games = filtered
	}

	// Newest first
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})

	limit := len(games)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(games) {
			limit = l
		}
	}
	games = games[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(games),
		"games":   games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	game, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

func (s *Server) handlePatchGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var patch service.GamePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	game, err := s.service.UpdateGame(r.Context(), gameID, patch)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	game, err := s.service.StartGame(r.Context(), gameID)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	log.Printf("[API] game %s started with %d players", game.ID, len(game.Players))

	// Lobby clients learn about the start the same way as over the socket.
	if s.hub != nil {
		s.hub.BroadcastToGame(gameID, websocket.MsgGameStarted, game)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"game":    game,
	})
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.presets.ListPresets()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	preset, err := s.presets.LoadPreset(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var preset service.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if preset.Name == "" {
		respondError(w, http.StatusBadRequest, "Preset name is required")
		return
	}

	if err := s.presets.SavePreset(strings.ToLower(preset.Name), &preset); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"preset_id": strings.ToLower(preset.Name),
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")

	// A connection may name its game up front to get lobby broadcasts before
	// joining; verify the game exists in that case.
	if gameID != "" {
		if _, err := s.service.GetGame(r.Context(), gameID); err != nil {
			http.Error(w, "Invalid game", http.StatusNotFound)
			return
		}
	}

	s.hub.ServeWS(w, r, gameID)
}

// Status Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "sequence-server",
		"status":  "running",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"message": "Sequence game server. POST /api/games to create a game, connect to /ws to play.",
	})
}
