package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/engine"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sequence Game Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sequence Game Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OVERVIEW:
Sequence is played on a 10x10 board of card slots. Players hold hands of
cards; on your turn you claim a board slot matching one of your cards, then
draw a replacement. The four board corners are wild and cannot be claimed.

AVAILABLE TOOLS:
- create_game: Open a new game and get its shareable lobby link
- list_games: List games currently on the server
- get_game: Inspect one game (roster, teams, turn, settings)
- start_game: Deal hands and begin play
- get_board: Render a game's board with claimed slots

Players join and play over the WebSocket protocol; this surface is for
creating and observing games.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game with a host player and optional preset",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"host_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the hosting player",
				},
				"max_players": map[string]interface{}{
					"type":        "number",
					"description": "Player limit, 2 to 6 (optional)",
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Name of the rule preset to use (optional)",
				},
			},
			Required: []string{"host_name"},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games on the server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the roster, teams, turn and settings of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID to retrieve",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Deal hands and move a waiting game into play",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID to start",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Render a game's board showing claimed slots by team",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID whose board to render",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetBoard)
}

// GetMCPServer exposes the underlying MCP server for transport wiring.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// gameEnvelope is the REST API's {success, game} wrapper.
type gameEnvelope struct {
	Success bool         `json:"success"`
	Game    *engine.Game `json:"game"`
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	hostName, _ := args["host_name"].(string)
	preset, _ := args["preset"].(string)

	body := map[string]interface{}{
		"hostName": hostName,
	}
	if maxPlayers, ok := args["max_players"].(float64); ok {
		body["maxPlayers"] = int(maxPlayers)
	}
	if preset != "" {
		body["preset"] = preset
	}

	var envelope gameEnvelope
	if err := c.apiCall("POST", "/api/games", body, &envelope); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game created.\n\n%s\nShare this link with players: %s",
		formatGame(envelope.Game), envelope.Game.Link)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Success bool           `json:"success"`
		Count   int            `json:"count"`
		Games   []*engine.Game `json:"games"`
	}
	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(response.Games) == 0 {
		return mcp.NewToolResultText("No games on the server."), nil
	}

	sort.Slice(response.Games, func(i, j int) bool {
		return response.Games[i].CreatedAt.After(response.Games[j].CreatedAt)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Games (%d):\n\n", len(response.Games))
	for _, game := range response.Games {
		fmt.Fprintf(&b, "• %s — %s, %d/%d players\n",
			game.ID, game.Status, len(game.Players), game.MaxPlayers)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var envelope gameEnvelope
	if err := c.apiCall("GET", "/api/games/"+gameID, nil, &envelope); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGame(envelope.Game)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var envelope gameEnvelope
	if err := c.apiCall("POST", "/api/games/"+gameID+"/start", nil, &envelope); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game started.\n\n%s\n%s",
		formatGame(envelope.Game), formatBoard(envelope.Game))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var envelope gameEnvelope
	if err := c.apiCall("GET", "/api/games/"+gameID, nil, &envelope); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(envelope.Game)), nil
}

// formatGame renders a game's roster and turn state as text.
func formatGame(game *engine.Game) string {
	if game == nil {
		return "Game unavailable."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Game %s (%s)\n", game.ID, game.Status)
	fmt.Fprintf(&b, "Players (%d/%d):\n", len(game.Players), game.MaxPlayers)

	currentTurn := ""
	if game.GameData != nil {
		currentTurn = game.GameData.CurrentTurn
	}

	for _, p := range game.Players {
		team := string(p.Team)
		if team == "" {
			team = "no team"
		}
		marker := " "
		if p.ID == currentTurn {
			marker = "→"
		}
		fmt.Fprintf(&b, "%s %s (%s, %s)", marker, p.Name, p.Role, team)
		if game.Status == engine.StatusInProgress {
			fmt.Fprintf(&b, " — %d cards", len(p.Cards))
		}
		b.WriteString("\n")
	}

	if game.GameData != nil {
		fmt.Fprintf(&b, "Deck remaining: %d\n", len(game.GameData.Deck))
	}
	return b.String()
}

// formatBoard renders the 10x10 board. Corners show as ##, open slots as
// their card code, claimed slots as the claiming team's letter.
func formatBoard(game *engine.Game) string {
	if game == nil || game.GameData == nil {
		return "Board unavailable — the game has not started."
	}

	cells := make(map[string]string, len(game.GameData.Board))
	for _, slot := range game.GameData.Board {
		switch {
		case slot.CardType == board.TypeCorner:
			cells[slot.ID] = " ## "
		case slot.IsOccupied:
			letter := "x"
			if slot.ChipColor != "" {
				letter = strings.ToUpper(slot.ChipColor[:1])
			}
			cells[slot.ID] = " (" + letter + ")"
		default:
			cells[slot.ID] = fmt.Sprintf("%4s", shortCard(slot.CardImage))
		}
	}

	var b strings.Builder
	b.WriteString("Board (## corner, (R)/(G)/(B) claimed):\n\n")
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			b.WriteString(cells[board.SlotID(row, col)])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// shortCard compresses a rank-suit key like "queen-hearts" to "QH".
func shortCard(key string) string {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return key
	}
	rank := parts[0]
	switch rank {
	case "ace", "king", "queen", "jack":
		rank = strings.ToUpper(rank[:1])
	}
	return rank + strings.ToUpper(parts[1][:1])
}
