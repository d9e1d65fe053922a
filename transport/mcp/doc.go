// Package mcp provides a Model Context Protocol surface for the Sequence
// game server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game creation and observation
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_game: Open a new game and get its shareable lobby link
//   - list_games: List games on the server
//   - get_game: Inspect a game's roster, teams and turn
//   - start_game: Deal hands and begin play
//   - get_board: Render a game's board with claimed slots
//
// Architecture:
//
// The client is a thin proxy: every tool call is translated into a REST API
// request against the running server, so MCP agents and HTTP clients always
// observe the same state. Gameplay itself (joining, team selection, moves)
// happens over the WebSocket protocol; this surface creates and watches
// games.
//
// Usage:
//
//	// Stdio mode
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	http.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
//		body, _ := io.ReadAll(r.Body)
//		response := client.GetMCPServer().HandleMessage(r.Context(), body)
//		json.NewEncoder(w).Encode(response)
//	})
package mcp
