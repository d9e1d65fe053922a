package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/seqboard/sequence-server/game/board"
)

func createTestGame(playerNames ...string) *Game {
	g := &Game{
		ID:         "game-1",
		Link:       "http://localhost:5173/lobby/game-1",
		Status:     StatusWaiting,
		MaxPlayers: DefaultPlayers,
		Settings:   DefaultSettings(),
		CreatedAt:  time.Now(),
	}
	for i, name := range playerNames {
		p := &Player{
			ID:     "player-" + name,
			Name:   name,
			Role:   RolePlayer,
			GameID: g.ID,
		}
		if i == 0 {
			p.Role = RoleHost
			g.HostID = p.ID
		}
		g.Players = append(g.Players, p)
	}
	return g
}

func startedGame(t *testing.T, playerNames ...string) *Game {
	t.Helper()
	g := createTestGame(playerNames...)
	if err := Start(g, DefaultHandSize); err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}
	return g
}

// firstPlayableSlot returns an unoccupied regular slot, preferring one that
// matches a card in the given player's hand.
func firstPlayableSlot(g *Game, p *Player) *board.Slot {
	inHand := make(map[string]bool)
	for _, c := range p.Cards {
		inHand[c.Key()] = true
	}

	var fallback *board.Slot
	for i := range g.GameData.Board {
		s := &g.GameData.Board[i]
		if s.CardType != board.TypeRegular || s.IsOccupied {
			continue
		}
		if inHand[s.CardImage] {
			return s
		}
		if fallback == nil {
			fallback = s
		}
	}
	return fallback
}

func TestStart(t *testing.T) {
	g := startedGame(t, "alice", "bob")

	if g.Status != StatusInProgress {
		t.Errorf("Expected status %s, got %s", StatusInProgress, g.Status)
	}

	t.Run("deals seven cards to each player", func(t *testing.T) {
		for _, p := range g.Players {
			if len(p.Cards) != 7 {
				t.Errorf("Player %s has %d cards, expected 7", p.Name, len(p.Cards))
			}
		}
	})

	t.Run("deck shrinks by the dealt cards", func(t *testing.T) {
		if len(g.GameData.Deck) != 104-14 {
			t.Errorf("Expected %d cards left in deck, got %d", 104-14, len(g.GameData.Deck))
		}
	})

	t.Run("board has 100 fresh slots", func(t *testing.T) {
		if len(g.GameData.Board) != 100 {
			t.Fatalf("Expected 100 slots, got %d", len(g.GameData.Board))
		}
		for _, s := range g.GameData.Board {
			if s.IsOccupied {
				t.Errorf("Slot %s starts occupied", s.ID)
			}
		}
	})

	t.Run("first roster entry takes the first turn", func(t *testing.T) {
		if g.GameData.CurrentTurn != g.Players[0].ID {
			t.Errorf("Expected current turn %s, got %s", g.Players[0].ID, g.GameData.CurrentTurn)
		}
	})
}

func TestStartGuards(t *testing.T) {
	t.Run("needs at least two players", func(t *testing.T) {
		g := createTestGame("alice")
		if err := Start(g, DefaultHandSize); !errors.Is(err, ErrNotEnoughPlayers) {
			t.Errorf("Expected ErrNotEnoughPlayers, got %v", err)
		}
		if g.Status != StatusWaiting {
			t.Errorf("Failed start must not change status, got %s", g.Status)
		}
	})

	t.Run("cannot start twice", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		if err := Start(g, DefaultHandSize); !errors.Is(err, ErrAlreadyStarted) {
			t.Errorf("Expected ErrAlreadyStarted, got %v", err)
		}
	})
}

func TestApplyMove(t *testing.T) {
	g := startedGame(t, "alice", "bob", "carl")
	g.Players[0].Team = TeamRed

	actor := g.Players[0]
	slot := firstPlayableSlot(g, actor)
	handBefore := len(actor.Cards)
	hadMatch := false
	for _, c := range actor.Cards {
		if c.Key() == slot.CardImage {
			hadMatch = true
			break
		}
	}

	outcome, err := ApplyMove(g, actor.ID, slot.ID)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	t.Run("slot takes the player's chip", func(t *testing.T) {
		if !slot.IsOccupied {
			t.Error("Slot should be occupied after the move")
		}
		if slot.ChipColor != string(TeamRed) {
			t.Errorf("Expected chip color red, got %q", slot.ChipColor)
		}
		if outcome.Slot.ID != slot.ID || !outcome.Slot.IsOccupied {
			t.Errorf("Outcome slot does not reflect the move: %+v", outcome.Slot)
		}
	})

	t.Run("matching card is consumed and replaced", func(t *testing.T) {
		if !hadMatch {
			t.Skip("hand had no matching card for the chosen slot")
		}
		if outcome.CardPlayed == nil {
			t.Fatal("Expected a played card in the outcome")
		}
		if outcome.CardPlayed.Key() != slot.CardImage {
			t.Errorf("Played card %s does not match slot card %s", outcome.CardPlayed.Key(), slot.CardImage)
		}
		if len(actor.Cards) != handBefore {
			t.Errorf("Hand size changed from %d to %d; draw should restore it", handBefore, len(actor.Cards))
		}
	})

	t.Run("turn advances to the next roster entry", func(t *testing.T) {
		if g.GameData.CurrentTurn != g.Players[1].ID {
			t.Errorf("Expected turn to pass to %s, got %s", g.Players[1].ID, g.GameData.CurrentTurn)
		}
		if outcome.CurrentTurn != g.GameData.CurrentTurn {
			t.Errorf("Outcome turn %s disagrees with game %s", outcome.CurrentTurn, g.GameData.CurrentTurn)
		}
	})
}

func TestApplyMoveNoMatchingCard(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	actor := g.Players[0]

	// Strip the hand so no card can match the slot.
	actor.Cards = nil
	slot := firstPlayableSlot(g, actor)

	outcome, err := ApplyMove(g, actor.ID, slot.ID)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	if outcome.CardPlayed != nil {
		t.Errorf("Expected no played card, got %v", outcome.CardPlayed)
	}
	if !slot.IsOccupied {
		t.Error("Slot should be occupied even without a matching card")
	}
	if len(actor.Cards) != 1 {
		// replacement draw still happens
		t.Errorf("Expected hand of 1 after the draw, got %d", len(actor.Cards))
	}
}

func TestApplyMoveEmptyDeck(t *testing.T) {
	g := startedGame(t, "alice", "bob")
	g.GameData.Deck = nil

	actor := g.Players[0]
	handBefore := len(actor.Cards)
	slot := firstPlayableSlot(g, actor)
	hadMatch := false
	for _, c := range actor.Cards {
		if c.Key() == slot.CardImage {
			hadMatch = true
		}
	}

	outcome, err := ApplyMove(g, actor.ID, slot.ID)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}
	if outcome.CardDrawn {
		t.Error("No card should be drawn from an empty deck")
	}
	if hadMatch && len(actor.Cards) != handBefore-1 {
		t.Errorf("Expected hand to shrink to %d, got %d", handBefore-1, len(actor.Cards))
	}
}

func TestApplyMoveTurnWrapsAround(t *testing.T) {
	g := startedGame(t, "a", "b", "c")
	last := g.Players[2]
	g.GameData.CurrentTurn = last.ID

	slot := firstPlayableSlot(g, last)
	if _, err := ApplyMove(g, last.ID, slot.ID); err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	if g.GameData.CurrentTurn != g.Players[0].ID {
		t.Errorf("Expected turn to wrap to %s, got %s", g.Players[0].ID, g.GameData.CurrentTurn)
	}
}

func TestApplyMoveGuards(t *testing.T) {
	t.Run("rejects moves before the game starts", func(t *testing.T) {
		g := createTestGame("alice", "bob")
		if _, err := ApplyMove(g, g.Players[0].ID, "0-1"); !errors.Is(err, ErrNotInProgress) {
			t.Errorf("Expected ErrNotInProgress, got %v", err)
		}
	})

	t.Run("rejects moves after completion", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		g.Status = StatusCompleted
		if _, err := ApplyMove(g, g.Players[0].ID, "0-1"); !errors.Is(err, ErrNotInProgress) {
			t.Errorf("Expected ErrNotInProgress, got %v", err)
		}
	})

	t.Run("rejects a move out of turn", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		if _, err := ApplyMove(g, g.Players[1].ID, "0-1"); !errors.Is(err, ErrNotYourTurn) {
			t.Errorf("Expected ErrNotYourTurn, got %v", err)
		}
	})

	t.Run("rejects unknown players", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		if _, err := ApplyMove(g, "stranger", "0-1"); !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("rejects unknown slots", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		if _, err := ApplyMove(g, g.Players[0].ID, "42-42"); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("Expected ErrSlotNotFound, got %v", err)
		}
	})

	t.Run("rejects corner slots", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		if _, err := ApplyMove(g, g.Players[0].ID, "0-0"); !errors.Is(err, ErrCornerSlot) {
			t.Errorf("Expected ErrCornerSlot, got %v", err)
		}
	})

	t.Run("rejects occupied slots", func(t *testing.T) {
		g := startedGame(t, "alice", "bob")
		actor := g.Players[0]
		slot := firstPlayableSlot(g, actor)
		if _, err := ApplyMove(g, actor.ID, slot.ID); err != nil {
			t.Fatalf("First move failed: %v", err)
		}

		// Hand the turn back and replay the same slot.
		g.GameData.CurrentTurn = actor.ID
		if _, err := ApplyMove(g, actor.ID, slot.ID); !errors.Is(err, ErrSlotOccupied) {
			t.Errorf("Expected ErrSlotOccupied, got %v", err)
		}
	})
}

func TestClampMaxPlayers(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultPlayers},
		{1, MinPlayers},
		{2, 2},
		{4, 4},
		{6, 6},
		{7, MaxPlayers},
		{100, MaxPlayers},
		{-3, MinPlayers},
	}
	for _, c := range cases {
		if got := ClampMaxPlayers(c.in); got != c.want {
			t.Errorf("ClampMaxPlayers(%d) = %d, expected %d", c.in, got, c.want)
		}
	}
}

func TestHandSizeNeverExceedsSeven(t *testing.T) {
	g := startedGame(t, "a", "b")

	// Play several rounds and check the cap holds.
	for round := 0; round < 5; round++ {
		for _, p := range g.Players {
			g.GameData.CurrentTurn = p.ID
			slot := firstPlayableSlot(g, p)
			if slot == nil {
				t.Fatal("Ran out of playable slots")
			}
			if _, err := ApplyMove(g, p.ID, slot.ID); err != nil {
				t.Fatalf("ApplyMove failed: %v", err)
			}
			if len(p.Cards) > DefaultHandSize {
				t.Fatalf("Player %s holds %d cards, cap is %d", p.Name, len(p.Cards), DefaultHandSize)
			}
		}
	}
}
