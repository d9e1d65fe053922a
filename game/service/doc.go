// Package service provides the business logic layer for the Sequence game
// server.
//
// The service package implements:
//   - Multi-game registry management
//   - Preset loading and settings merging
//   - Roster, team and turn orchestration
//   - Per-game write serialization
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. GameManager handles game registration, retrieval, and
// persistence write-through. PresetManager hands out named rule presets.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing game lookup, per-game locking, and business
// rules that span more than one engine call. Every mutating operation takes
// the target session's lock, so concurrent requests against the same game
// are applied one after another while independent games proceed in parallel.
//
// Usage:
//
//	sessionMgr := session.NewManagerWithPersistence(persistence)
//	presetMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, presetMgr, baseURL)
//
//	// Create a new game
//	game, err := gameService.CreateGame(ctx, service.CreateGameRequest{HostName: "alice"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Play a turn
//	result, err := gameService.ApplyMove(ctx, game.ID, playerID, "4-7")
//
// Error Handling:
//
// Registry failures are reported through the sentinel errors in this package
// (ErrGameNotFound, ErrGameFull, ...); turn validation failures come from
// the engine package. Transports map both families to stable wire codes with
// errors.Is.
package service
