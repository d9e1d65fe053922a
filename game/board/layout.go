package board

// layout is the fixed card printing of the physical board, row-major.
// Cells use compact codes: rank letter(s) followed by a suit letter
// (H, D, C, S). "--" marks the four free corners. Jacks never appear on
// the board; every one of the other 48 cards is printed exactly twice,
// which the validate command checks.
var layout = [Size][Size]string{
	{"--", "2S", "3S", "4S", "5S", "6S", "7S", "8S", "9S", "--"},
	{"6C", "5C", "4C", "3C", "2C", "AH", "KH", "QH", "10H", "10S"},
	{"7C", "AS", "2D", "3D", "4D", "5D", "6D", "7D", "9H", "QS"},
	{"8C", "KS", "6C", "5C", "4C", "3C", "2C", "8D", "8H", "KS"},
	{"9C", "QS", "7C", "6H", "5H", "4H", "AH", "9D", "7H", "AS"},
	{"10C", "10S", "8C", "7H", "2H", "3H", "KH", "10D", "6H", "2D"},
	{"QC", "9S", "9C", "8H", "9H", "10H", "QH", "QD", "5H", "3D"},
	{"KC", "8S", "10C", "QC", "KC", "AC", "AD", "KD", "4H", "4D"},
	{"AC", "7S", "6S", "5S", "4S", "3S", "2S", "2H", "3H", "5D"},
	{"--", "AD", "KD", "QD", "10D", "9D", "8D", "7D", "6D", "--"},
}

var rankNames = map[string]string{
	"A": "ace", "K": "king", "Q": "queen", "10": "10",
	"9": "9", "8": "8", "7": "7", "6": "6",
	"5": "5", "4": "4", "3": "3", "2": "2",
}

var suitNames = map[byte]string{
	'H': "hearts", 'D': "diamonds", 'C': "clubs", 'S': "spades",
}

// cardKey expands a layout code like "10D" into the "rank-suit" key used for
// hand matching, or "" for the corner marker.
func cardKey(code string) string {
	if code == CornerCode {
		return ""
	}
	rank := rankNames[code[:len(code)-1]]
	suit := suitNames[code[len(code)-1]]
	if rank == "" || suit == "" {
		return ""
	}
	return rank + "-" + suit
}
