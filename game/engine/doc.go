// Package engine holds the game and player records and the turn state
// machine that drives them.
//
// The engine implements:
//   - The Game and Player record shapes shared with persistence and transport
//   - The waiting → in-progress lifecycle transition (board build, deal, turn seed)
//   - Per-turn move validation and application
//   - Round-robin team ordering for fair turn rotation
//   - The closed-variant settings record
//
// Ownership:
//
// The engine mutates records but never creates or destroys them; the session
// registry owns record lifecycle. All engine operations are pure functions
// over a *Game and perform no I/O, so callers decide when state is persisted
// and broadcast.
//
// Turn order:
//
// The roster's order is the turn order. ArrangeRGB recomputes that order
// whenever team membership changes, interleaving red, green, and blue
// players round-robin so consecutive turns rotate across teams. The first
// turn of a game always goes to the first roster entry at start time.
//
// Concurrency:
//
// Engine functions are not safe for concurrent use on the same Game. The
// session registry serializes mutating operations per game.
package engine
