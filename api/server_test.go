package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	CreateGameFunc func(ctx context.Context, req service.CreateGameRequest) (*engine.Game, error)
	GetGameFunc    func(ctx context.Context, gameID string) (*engine.Game, error)
	ListGamesFunc  func(ctx context.Context) ([]*engine.Game, error)
	UpdateGameFunc func(ctx context.Context, gameID string, patch service.GamePatch) (*engine.Game, error)
	StartGameFunc  func(ctx context.Context, gameID string) (*engine.Game, error)
}

func testGame(id string) *engine.Game {
	now := time.Now()
	return &engine.Game{
		ID:         id,
		Link:       "/lobby/" + id,
		Players:    []*engine.Player{{ID: id + "-host", Name: "alice", Role: engine.RoleHost}},
		HostID:     id + "-host",
		Status:     engine.StatusWaiting,
		MaxPlayers: engine.DefaultPlayers,
		Settings:   engine.DefaultSettings(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (m *MockGameService) CreateGame(ctx context.Context, req service.CreateGameRequest) (*engine.Game, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(ctx, req)
	}
	return testGame("new-game"), nil
}

func (m *MockGameService) GetGame(ctx context.Context, gameID string) (*engine.Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(ctx, gameID)
	}
	return testGame(gameID), nil
}

func (m *MockGameService) ListGames(ctx context.Context) ([]*engine.Game, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx)
	}
	return []*engine.Game{testGame("a"), testGame("b")}, nil
}

func (m *MockGameService) UpdateGame(ctx context.Context, gameID string, patch service.GamePatch) (*engine.Game, error) {
	if m.UpdateGameFunc != nil {
		return m.UpdateGameFunc(ctx, gameID, patch)
	}
	return testGame(gameID), nil
}

func (m *MockGameService) JoinGame(ctx context.Context, gameID, playerName string) (*service.JoinResult, error) {
	return nil, errors.New("not implemented")
}

func (m *MockGameService) JoinTeam(ctx context.Context, gameID, playerID string, team engine.Team) (*engine.Game, error) {
	return nil, errors.New("not implemented")
}

func (m *MockGameService) LeaveTeam(ctx context.Context, gameID, playerID string) (*engine.Game, error) {
	return nil, errors.New("not implemented")
}

func (m *MockGameService) StartGame(ctx context.Context, gameID string) (*engine.Game, error) {
	if m.StartGameFunc != nil {
		return m.StartGameFunc(ctx, gameID)
	}
	game := testGame(gameID)
	game.Status = engine.StatusInProgress
	return game, nil
}

func (m *MockGameService) ApplyMove(ctx context.Context, gameID, playerID, slotID string) (*service.MoveResult, error) {
	return nil, errors.New("not implemented")
}

// MockPresetManager implements service.PresetManager for testing
type MockPresetManager struct {
	presets map[string]*service.Preset
}

func newMockPresets() *MockPresetManager {
	return &MockPresetManager{
		presets: map[string]*service.Preset{
			"classic": {Name: "Classic", HandSize: 7, MaxPlayers: 4},
		},
	}
}

func (m *MockPresetManager) LoadPreset(name string) (*service.Preset, error) {
	preset, ok := m.presets[name]
	if !ok {
		return nil, errors.New("preset not found")
	}
	return preset, nil
}

func (m *MockPresetManager) ListPresets() ([]*service.PresetInfo, error) {
	infos := make([]*service.PresetInfo, 0, len(m.presets))
	for name, p := range m.presets {
		infos = append(infos, &service.PresetInfo{PresetID: name, Name: p.Name})
	}
	return infos, nil
}

func (m *MockPresetManager) GetDefault() *service.Preset {
	return m.presets["classic"]
}

func (m *MockPresetManager) SavePreset(name string, preset *service.Preset) error {
	m.presets[name] = preset
	return nil
}

func newTestServer(svc service.GameService) *Server {
	return NewServer(svc, newMockPresets(), nil)
}

type gameResponse struct {
	Success bool         `json:"success"`
	Game    *engine.Game `json:"game"`
	Error   string       `json:"error"`
}

func decodeGameResponse(t *testing.T, rec *httptest.ResponseRecorder) *gameResponse {
	t.Helper()
	var resp gameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp
}

func TestCreateGame(t *testing.T) {
	server := newTestServer(&MockGameService{})

	body := bytes.NewBufferString(`{"hostName":"alice","maxPlayers":4}`)
	req := httptest.NewRequest("POST", "/api/games", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeGameResponse(t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Game)
	assert.NotEmpty(t, resp.Game.Link)
}

func TestCreateGameErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"malformed body", `{not json`, nil, http.StatusBadRequest},
		{"missing host name", `{}`, service.ErrHostNameRequired, http.StatusBadRequest},
		{"store failure", `{"hostName":"alice"}`, service.ErrPersistence, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockGameService{}
			if tt.serviceErr != nil {
				svc.CreateGameFunc = func(ctx context.Context, req service.CreateGameRequest) (*engine.Game, error) {
					return nil, tt.serviceErr
				}
			}
			server := newTestServer(svc)

			req := httptest.NewRequest("POST", "/api/games", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeGameResponse(t, rec)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGetGame(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/api/games/game1", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGameResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "game1", resp.Game.ID)
}

func TestGetGameNotFound(t *testing.T) {
	svc := &MockGameService{
		GetGameFunc: func(ctx context.Context, gameID string) (*engine.Game, error) {
			return nil, service.ErrGameNotFound
		},
	}
	server := newTestServer(svc)

	req := httptest.NewRequest("GET", "/api/games/nonexistent", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGames(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/api/games", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Count   int            `json:"count"`
		Games   []*engine.Game `json:"games"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Games, 2)
}

func TestListGamesStatusFilter(t *testing.T) {
	waiting := testGame("w")
	running := testGame("r")
	running.Status = engine.StatusInProgress
	svc := &MockGameService{
		ListGamesFunc: func(ctx context.Context) ([]*engine.Game, error) {
			return []*engine.Game{waiting, running}, nil
		},
	}
	server := newTestServer(svc)

	req := httptest.NewRequest("GET", "/api/games?status=in-progress", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	var resp struct {
		Games []*engine.Game `json:"games"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Games, 1)
	assert.Equal(t, "r", resp.Games[0].ID)
}

func TestPatchGame(t *testing.T) {
	var gotPatch service.GamePatch
	svc := &MockGameService{
		UpdateGameFunc: func(ctx context.Context, gameID string, patch service.GamePatch) (*engine.Game, error) {
			gotPatch = patch
			game := testGame(gameID)
			game.MaxPlayers = *patch.MaxPlayers
			return game, nil
		},
	}
	server := newTestServer(svc)

	req := httptest.NewRequest("PATCH", "/api/games/game1", bytes.NewBufferString(`{"maxPlayers":6}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotPatch.MaxPlayers)
	assert.Equal(t, 6, *gotPatch.MaxPlayers)

	resp := decodeGameResponse(t, rec)
	assert.Equal(t, 6, resp.Game.MaxPlayers)
}

func TestPatchGameInvalid(t *testing.T) {
	svc := &MockGameService{
		UpdateGameFunc: func(ctx context.Context, gameID string, patch service.GamePatch) (*engine.Game, error) {
			return nil, service.ErrInvalidPatch
		},
	}
	server := newTestServer(svc)

	req := httptest.NewRequest("PATCH", "/api/games/game1", bytes.NewBufferString(`{"maxPlayers":1}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartGame(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("POST", "/api/games/game1/start", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGameResponse(t, rec)
	assert.Equal(t, engine.StatusInProgress, resp.Game.Status)
}

func TestStartGameConflict(t *testing.T) {
	svc := &MockGameService{
		StartGameFunc: func(ctx context.Context, gameID string) (*engine.Game, error) {
			return nil, engine.ErrAlreadyStarted
		},
	}
	server := newTestServer(svc)

	req := httptest.NewRequest("POST", "/api/games/game1/start", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListPresets(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/api/presets", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var infos []*service.PresetInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&infos))
	assert.Len(t, infos, 1)
}

func TestGetPreset(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/api/presets/classic", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var preset service.Preset
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&preset))
	assert.Equal(t, "Classic", preset.Name)

	req = httptest.NewRequest("GET", "/api/presets/nonexistent", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePreset(t *testing.T) {
	server := newTestServer(&MockGameService{})

	body := bytes.NewBufferString(`{"name":"Blitz","handSize":3,"maxPlayers":2}`)
	req := httptest.NewRequest("POST", "/api/presets", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest("GET", "/api/presets/blitz", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePresetMissingName(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("POST", "/api/presets", bytes.NewBufferString(`{"handSize":5}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestIndex(t *testing.T) {
	server := newTestServer(&MockGameService{})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "running", resp["status"])
}
