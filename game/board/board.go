// Package board builds the fixed 10×10 board from the static card layout.
//
// Build is a pure function: it enumerates the 100 positions in row-major
// order and produces independent, unoccupied slot records, so two calls
// always yield identical boards suitable for golden-output testing.
package board

import "fmt"

const (
	// Size is the board edge length.
	Size = 10

	// CornerCode marks a free corner cell in the layout table.
	CornerCode = "--"

	// CornerImage is the card image sentinel for corners.
	CornerImage = "back"
)

// Slot card types.
const (
	TypeCorner  = "corner"
	TypeRegular = "regular"
)

// Slot is one board position. Regular slots carry the "rank-suit" key of the
// card printed there; corners are free and never played on. A slot occupied
// once stays occupied for the life of the game.
type Slot struct {
	ID         string `json:"id"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	CardType   string `json:"cardType"`
	CardImage  string `json:"cardImage"`
	IsOccupied bool   `json:"isOccupied"`
	ChipColor  string `json:"chipColor,omitempty"`
}

// SlotID returns the identity for a position, "{row}-{col}".
func SlotID(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// Build returns all 100 slots in row-major order, all unoccupied.
func Build() []Slot {
	slots := make([]Slot, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			code := layout[row][col]

			slot := Slot{
				ID:  SlotID(row, col),
				Row: row,
				Col: col,
			}
			if code == CornerCode {
				slot.CardType = TypeCorner
				slot.CardImage = CornerImage
			} else {
				slot.CardType = TypeRegular
				slot.CardImage = cardKey(code)
			}

			slots = append(slots, slot)
		}
	}
	return slots
}

// Layout exposes the raw layout codes, row-major.
func Layout() [Size][Size]string {
	return layout
}
