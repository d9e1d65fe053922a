package engine

import (
	"time"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/deck"
)

// Status is the lifecycle state of a game. It only ever advances forward:
// waiting → in-progress → completed.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Team is a chip color. A player with no team holds TeamNone.
type Team string

const (
	TeamNone  Team = ""
	TeamRed   Team = "red"
	TeamGreen Team = "green"
	TeamBlue  Team = "blue"
)

// Valid reports whether t is one of the three playable teams.
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamGreen || t == TeamBlue
}

// Player roles.
const (
	RoleHost   = "host"
	RolePlayer = "player"
)

// Roster bounds and dealing defaults.
const (
	MinPlayers      = 2
	MaxPlayers      = 6
	DefaultPlayers  = 4
	DefaultHandSize = 7
)

// Player is one participant of a game. Players are created when a
// participant joins and live as long as the game does; a dropped connection
// does not remove its player.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      string      `json:"role"`
	GameID    string      `json:"gameId"`
	Team      Team        `json:"team"`
	Cards     []deck.Card `json:"cards"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// GameData holds the play-phase state. It stays nil until the game leaves
// the waiting status.
type GameData struct {
	Deck        []deck.Card    `json:"deck"`
	Board       []board.Slot   `json:"board"`
	CurrentTurn string         `json:"currentTurn"`
	Score       map[string]int `json:"score"`
}

// Game is one session: a roster of players, the shared board and deck, and
// the turn pointer. The ordered roster doubles as the turn order.
type Game struct {
	ID         string    `json:"id"`
	Link       string    `json:"link"`
	Players    []*Player `json:"players"`
	HostID     string    `json:"host"`
	Status     Status    `json:"status"`
	MaxPlayers int       `json:"maxPlayers"`
	Settings   Settings  `json:"gameSettings"`
	GameData   *GameData `json:"gameData,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClampMaxPlayers forces n into the [MinPlayers, MaxPlayers] range, using the
// default for a zero value.
func ClampMaxPlayers(n int) int {
	if n == 0 {
		return DefaultPlayers
	}
	if n < MinPlayers {
		return MinPlayers
	}
	if n > MaxPlayers {
		return MaxPlayers
	}
	return n
}

// IsFull reports whether the roster has reached the player limit.
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// FindPlayer returns the roster entry with the given ID, or nil.
func (g *Game) FindPlayer(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// playerIndex returns the roster position of playerID, or -1.
func (g *Game) playerIndex(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// findSlot returns the board slot with the given ID, or nil. The pointer
// aliases the game's board so callers can mutate the slot in place.
func (g *Game) findSlot(slotID string) *board.Slot {
	if g.GameData == nil {
		return nil
	}
	for i := range g.GameData.Board {
		if g.GameData.Board[i].ID == slotID {
			return &g.GameData.Board[i]
		}
	}
	return nil
}
