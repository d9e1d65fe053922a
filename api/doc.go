// Package api provides the HTTP REST surface for the Sequence game server.
//
// The api package implements:
//   - Game creation with a generated shareable lobby link
//   - Game lookup, listing and explicit patching
//   - Preset listing and management
//   - WebSocket upgrade handling
//   - Health and index status documents
//
// Endpoints:
//
// Games:
//   - POST /api/games - Create a game (host name, optional player limit and preset)
//   - GET /api/games - List games, filterable by status
//   - GET /api/games/{id} - Get one game
//   - PATCH /api/games/{id} - Update player limit and settings
//   - POST /api/games/{id}/start - Deal hands and begin play
//
// Presets:
//   - GET /api/presets - List available rule presets
//   - GET /api/presets/{name} - Get one preset
//   - POST /api/presets - Save a preset
//
// Other:
//   - GET /ws - WebSocket upgrade (optionally ?game_id= to bind a room)
//   - GET /health - Liveness check
//   - GET / - Server status document
//
// Responses wrap their data as {success, game} or {success, error}; failures
// carry the HTTP status matching the failure family (404 absent, 409
// rule conflicts, 400 malformed input).
package api
