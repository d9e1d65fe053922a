// Package session is the durable side of the session registry.
//
// The session package implements:
//   - Thread-safe storage and retrieval of live game sessions
//   - Write-through persistence of game records as JSON documents
//   - Load-through on lookup, so games survive a process restart
//   - Pruning of in-memory games whose files were deleted out-of-band
//
// Core Types:
//
// Manager maps game IDs to sessions and mediates every read and write.
// FilePersistence stores each game (roster, board, deck, turn pointer) as a
// single JSON document, keyed by game ID.
//
// Concurrency:
//
// The manager's map lock guards only lookups and registrations; mutations of
// an individual game are serialized by that game's own session lock, so
// operations against different games proceed fully in parallel while two
// moves on the same game are applied one at a time.
package session
