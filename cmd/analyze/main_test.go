package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/session"
)

func testGame(t *testing.T) *engine.Game {
	t.Helper()

	game := &engine.Game{
		ID:         "analyze-test",
		Status:     engine.StatusWaiting,
		MaxPlayers: 4,
		Players: []*engine.Player{
			{ID: "p1", Name: "alice", Role: engine.RoleHost, Team: engine.TeamRed},
			{ID: "p2", Name: "bob", Role: engine.RolePlayer, Team: engine.TeamGreen},
			{ID: "p3", Name: "carol", Role: engine.RolePlayer},
		},
		Settings:  engine.DefaultSettings(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return game
}

func writeGameFile(t *testing.T, dir string, game *engine.Game) string {
	t.Helper()

	doc := session.PersistedGameData{
		ID:             game.ID,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		Game:           game,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal game: %v", err)
	}

	path := filepath.Join(dir, game.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write game file: %v", err)
	}
	return path
}

func TestTeamSpread(t *testing.T) {
	spread := teamSpread(testGame(t))

	if spread[engine.TeamRed] != 1 {
		t.Errorf("Expected 1 red player, got %d", spread[engine.TeamRed])
	}
	if spread[engine.TeamGreen] != 1 {
		t.Errorf("Expected 1 green player, got %d", spread[engine.TeamGreen])
	}
	if spread[engine.TeamNone] != 1 {
		t.Errorf("Expected 1 teamless player, got %d", spread[engine.TeamNone])
	}
}

func TestChipSpread(t *testing.T) {
	slots := board.Build()
	slots[11].IsOccupied = true
	slots[11].ChipColor = "red"
	slots[12].IsOccupied = true
	slots[12].ChipColor = "red"
	slots[13].IsOccupied = true
	slots[13].ChipColor = "blue"

	chips := chipSpread(slots)
	if chips["red"] != 2 {
		t.Errorf("Expected 2 red chips, got %d", chips["red"])
	}
	if chips["blue"] != 1 {
		t.Errorf("Expected 1 blue chip, got %d", chips["blue"])
	}
	if chips["green"] != 0 {
		t.Errorf("Expected 0 green chips, got %d", chips["green"])
	}
}

func TestAnalyzeGame_WaitingGame(t *testing.T) {
	path := writeGameFile(t, t.TempDir(), testGame(t))

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeGame panicked: %v", r)
		}
	}()

	analyzeGame(path)
}

func TestAnalyzeGame_StartedGame(t *testing.T) {
	game := testGame(t)
	if err := engine.Start(game, engine.DefaultHandSize); err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}
	path := writeGameFile(t, t.TempDir(), game)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeGame panicked: %v", r)
		}
	}()

	analyzeGame(path)
}

func TestAnalyzeGame_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeGame panicked with missing file: %v", r)
		}
	}()

	analyzeGame("/non/existent/game.json")
}

func TestAnalyzeGame_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{"id": "broken", bad json}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeGame panicked with invalid JSON: %v", r)
		}
	}()

	analyzeGame(path)
}
