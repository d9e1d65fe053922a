// Package websocket provides the real-time transport for the Sequence game
// server.
//
// The websocket package implements:
//   - Game-scoped rooms: broadcasts reach only the connections that joined
//     a game, never the whole server
//   - The lobby/play message protocol (join, teams, start, moves)
//   - Connection lifecycle management with ping/pong keepalive
//   - Error replies with stable codes, targeted at the offending connection
//
// Architecture:
//
// The package uses a hub-and-spoke model. The Hub owns the room table and is
// the only goroutine that touches it; clients talk to it over channels. Each
// connection runs a read pump (feeding the protocol Dispatcher) and a write
// pump (draining its send buffer).
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {type: "GAME_MOVE", data: {gameId, playerId, slotId}}
//   - Outgoing: {type: "GAME_MOVE", payload: {...}, timestamp: "..."}
//
// Error replies carry {code, message, details?} payloads with stable codes
// such as GAME_NOT_FOUND, NOT_YOUR_TURN or INVALID_JSON, and go to the
// originating connection only.
//
// Usage:
//
//	dispatcher := websocket.NewDispatcher(gameService)
//	hub := websocket.NewHub(dispatcher)
//	dispatcher.SetHub(hub)
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("game_id"))
//	})
//
// Connection Lifecycle:
//
// 1. Client connects, optionally naming a game in the URL
// 2. Client joins a game; the connection enters that game's room
// 3. Client sends protocol messages, receives replies and room broadcasts
// 4. Disconnection removes the connection from its room only — the player
// stays on the game's roster
//
// Concurrency:
//
// Fan-out is best-effort: a client that cannot keep up is dropped rather
// than blocking the room. Handling failures never propagate to other
// connections.
package websocket
