package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/deck"
)

var (
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotInProgress    = errors.New("game is not in progress")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotOccupied     = errors.New("slot already occupied")
	ErrCornerSlot       = errors.New("corner slots cannot be played")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
)

// Start moves a waiting game into play: it builds a fresh board and deck,
// deals handSize cards to every roster member in roster order without
// replacement, and hands the first turn to the first roster entry. Starting
// a game twice fails, keeping the status machine forward-only.
//
// The caller is responsible for having arranged the roster beforehand; turn
// order is whatever order the roster is in when play begins.
func Start(g *Game, handSize int) error {
	if g.Status != StatusWaiting {
		return fmt.Errorf("%w: status is %s", ErrAlreadyStarted, g.Status)
	}
	if len(g.Players) < MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, len(g.Players), MinPlayers)
	}
	if handSize <= 0 {
		handSize = DefaultHandSize
	}

	remaining := deck.New()
	now := time.Now()
	for _, p := range g.Players {
		p.Cards, remaining = deck.Deal(remaining, handSize)
		p.UpdatedAt = now
	}

	g.Status = StatusInProgress
	g.GameData = &GameData{
		Deck:        remaining,
		Board:       board.Build(),
		CurrentTurn: g.Players[0].ID,
		Score:       map[string]int{},
	}
	g.UpdatedAt = now
	return nil
}

// MoveOutcome describes an applied move for broadcasting.
type MoveOutcome struct {
	PlayerID    string     `json:"playerId"`
	Slot        board.Slot `json:"slot"`
	CardPlayed  *deck.Card `json:"cardPlayed,omitempty"`
	CardDrawn   bool       `json:"cardDrawn"`
	CurrentTurn string     `json:"currentTurn"`
}

// ApplyMove places the acting player's chip on a board slot and rotates the
// turn. The move is rejected unless the game is in progress, it is the acting
// player's turn, and the slot exists, is regular, and is unoccupied.
//
// The first hand card whose rank-suit key matches the slot is consumed; a
// hand with no matching card is left untouched rather than failing, so card
// ownership is not enforced server-side. One replacement card is drawn when
// the deck still has cards.
func ApplyMove(g *Game, playerID, slotID string) (*MoveOutcome, error) {
	if g.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: status is %s", ErrNotInProgress, g.Status)
	}

	idx := g.playerIndex(playerID)
	if idx < 0 {
		return nil, ErrPlayerNotFound
	}
	player := g.Players[idx]

	if g.GameData.CurrentTurn != playerID {
		return nil, ErrNotYourTurn
	}

	slot := g.findSlot(slotID)
	if slot == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
	}
	if slot.CardType == board.TypeCorner {
		return nil, ErrCornerSlot
	}
	if slot.IsOccupied {
		return nil, fmt.Errorf("%w: %s", ErrSlotOccupied, slotID)
	}

	slot.IsOccupied = true
	slot.ChipColor = string(player.Team)

	outcome := &MoveOutcome{PlayerID: playerID}

	for i, c := range player.Cards {
		if c.Key() == slot.CardImage {
			played := c
			outcome.CardPlayed = &played
			player.Cards = append(player.Cards[:i], player.Cards[i+1:]...)
			break
		}
	}

	if len(g.GameData.Deck) > 0 {
		var drawn []deck.Card
		drawn, g.GameData.Deck = deck.Deal(g.GameData.Deck, 1)
		player.Cards = append(player.Cards, drawn...)
		outcome.CardDrawn = true
	}

	g.GameData.CurrentTurn = g.Players[(idx+1)%len(g.Players)].ID

	now := time.Now()
	player.UpdatedAt = now
	g.UpdatedAt = now

	outcome.Slot = *slot
	outcome.CurrentTurn = g.GameData.CurrentTurn
	return outcome, nil
}
