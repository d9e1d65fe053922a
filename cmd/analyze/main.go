// Command analyze prints quick, human-readable summaries of the persisted
// game documents in a games directory. For each game it reports the status,
// the roster with its team spread, cards remaining in the deck, and how many
// chips have been placed on the board.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/session"
)

func main() {
	gamesDir := "data/games"
	if len(os.Args) > 1 {
		gamesDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(gamesDir, "*.json"))
	if err != nil {
		fmt.Printf("Error listing %s: %v\n", gamesDir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No game files found in %s\n", gamesDir)
		return
	}

	sort.Strings(files)
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeGame(file)
	}
}

func analyzeGame(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var doc session.PersistedGameData
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}
	if doc.Game == nil {
		fmt.Println("Error: document has no game record")
		return
	}

	game := doc.Game
	fmt.Printf("Game ID: %s\n", game.ID)
	fmt.Printf("Status: %s\n", game.Status)
	fmt.Printf("Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Last Accessed: %s\n", doc.LastAccessedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Players: %d / %d\n", len(game.Players), game.MaxPlayers)

	spread := teamSpread(game)
	for _, team := range []engine.Team{engine.TeamRed, engine.TeamGreen, engine.TeamBlue} {
		if n := spread[team]; n > 0 {
			fmt.Printf("  %s: %d\n", team, n)
		}
	}
	if n := spread[engine.TeamNone]; n > 0 {
		fmt.Printf("  no team: %d\n", n)
	}

	for _, p := range game.Players {
		marker := " "
		if game.GameData != nil && game.GameData.CurrentTurn == p.ID {
			marker = "→"
		}
		fmt.Printf("  %s %s (%s) %d cards\n", marker, p.Name, p.Role, len(p.Cards))
	}

	if game.GameData == nil {
		fmt.Println("Play phase not started")
		return
	}

	fmt.Printf("Deck Remaining: %d\n", len(game.GameData.Deck))

	chips := chipSpread(game.GameData.Board)
	total := 0
	for _, n := range chips {
		total += n
	}
	fmt.Printf("Chips Placed: %d\n", total)
	for _, color := range []string{"red", "green", "blue"} {
		if n := chips[color]; n > 0 {
			fmt.Printf("  %s: %d\n", color, n)
		}
	}
}

// teamSpread counts roster members per team, including TeamNone.
func teamSpread(game *engine.Game) map[engine.Team]int {
	spread := make(map[engine.Team]int)
	for _, p := range game.Players {
		spread[p.Team]++
	}
	return spread
}

// chipSpread counts occupied slots per chip color. Corners are never
// occupied, so they do not appear.
func chipSpread(slots []board.Slot) map[string]int {
	chips := make(map[string]int)
	for _, slot := range slots {
		if slot.IsOccupied {
			chips[slot.ChipColor]++
		}
	}
	return chips
}
