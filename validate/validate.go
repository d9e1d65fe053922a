// Command validate audits the embedded board layout and the rule preset JSON
// files in the ../configs directory. It checks:
//   - Board shape: 100 slots with well-formed row-major ids
//   - The four corners sit at the board's corner positions and nothing else
//   - Every non-jack card appears on exactly two slots; no jacks appear
//   - Preset JSON structure and rule bounds (hand size, player limits)
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seqboard/sequence-server/game/board"
	"github.com/seqboard/sequence-server/game/config"
	"github.com/seqboard/sequence-server/game/deck"
	"github.com/seqboard/sequence-server/game/service"
)

// ValidationResult captures the outcome of one validation target. If Valid
// is true, Errors carries informational messages; otherwise it accumulates
// the problems found.
type ValidationResult struct {
	Name   string
	Valid  bool
	Errors []string
}

// validateBoard audits the layout the board package builds.
func validateBoard() ValidationResult {
	result := ValidationResult{
		Name:   "embedded board layout",
		Valid:  true,
		Errors: []string{},
	}

	slots := board.Build()

	if len(slots) != board.Size*board.Size {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Expected %d slots, got %d", board.Size*board.Size, len(slots)))
		return result
	}

	// Row-major id check
	for i, slot := range slots {
		row, col := i/board.Size, i%board.Size
		if slot.ID != board.SlotID(row, col) || slot.Row != row || slot.Col != col {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Slot %d has id %s, expected %s", i, slot.ID, board.SlotID(row, col)))
		}
	}

	// Corner placement
	corners := map[string]bool{
		board.SlotID(0, 0):            true,
		board.SlotID(0, board.Size-1): true,
		board.SlotID(board.Size-1, 0): true,
		board.SlotID(board.Size-1, board.Size-1): true,
	}
	cornerCount := 0
	cardCounts := make(map[string]int)

	for _, slot := range slots {
		if slot.CardType == board.TypeCorner {
			cornerCount++
			if !corners[slot.ID] {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Corner at non-corner position %s", slot.ID))
			}
			continue
		}
		if strings.HasPrefix(slot.CardImage, "jack-") {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Jack on the board at %s", slot.ID))
		}
		cardCounts[slot.CardImage]++
	}

	if cornerCount != 4 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Expected 4 corners, got %d", cornerCount))
	}

	for card, count := range cardCounts {
		if count != 2 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Card %s appears %d times, expected 2", card, count))
		}
	}

	// Every board card must exist in the deck.
	deckKeys := make(map[string]bool)
	for _, c := range deck.New() {
		deckKeys[c.Key()] = true
	}
	for card := range cardCounts {
		if !deckKeys[card] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Board card %s is not a deck card", card))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Slots: %d", len(slots)))
		result.Errors = append(result.Errors, "✓ Corners: 4, correctly placed")
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Distinct cards: %d, each on exactly 2 slots", len(cardCounts)))
	}

	return result
}

// validatePresetFile loads and validates a single preset JSON file.
func validatePresetFile(filePath string) ValidationResult {
	result := ValidationResult{
		Name:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var preset service.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := config.ValidatePreset(&preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", preset.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Hand size: %d", preset.HandSize))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Max players: %d", preset.MaxPlayers))
	return result
}

func report(result ValidationResult) bool {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.Name)
	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
		return true
	}

	fmt.Println("❌ INVALID")
	for _, err := range result.Errors {
		fmt.Println("  ❌ " + err)
	}
	return false
}

// main audits the board layout and every preset file, printing a concise
// report and exiting non-zero if anything is invalid.
func main() {
	allValid := report(validateBoard())

	presetDir := "../configs"
	files, err := filepath.Glob(filepath.Join(presetDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding preset files: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		if !report(validatePresetFile(file)) {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ Board layout and presets are valid!")
	} else {
		fmt.Println("❌ Validation found errors")
		os.Exit(1)
	}
}
