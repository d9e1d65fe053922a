// Package deck builds and deals the double 52-card deck used by a game.
//
// A game starts from two copies of the standard 52-card set (104 cards,
// no jokers). Cards are not pre-shuffled; randomness comes from dealing,
// which draws uniformly at random from the remaining cards.
package deck

import "math/rand"

// Suits in the order the deck is enumerated.
var Suits = []string{"hearts", "diamonds", "clubs", "spades"}

// Ranks in the order the deck is enumerated.
var Ranks = []string{"ace", "king", "queen", "jack", "10", "9", "8", "7", "6", "5", "4", "3", "2"}

// Card is a rank/suit pair from the standard 52-card set.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// Key returns the "rank-suit" form used to match cards to board slots.
func (c Card) Key() string {
	return c.Rank + "-" + c.Suit
}

// New returns a fresh double deck: two copies of each of the 52 rank/suit
// combinations, 104 cards total, in deterministic order.
func New() []Card {
	cards := make([]Card, 0, 104)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return append(cards, cards...)
}

// Deal draws n cards from remaining by uniform random index without
// replacement and returns the hand alongside the cards left over. If fewer
// than n cards remain, the hand is short; callers dealing opening hands must
// size the deck accordingly.
func Deal(remaining []Card, n int) (hand, rest []Card) {
	rest = make([]Card, len(remaining))
	copy(rest, remaining)

	if n > len(rest) {
		n = len(rest)
	}

	hand = make([]Card, 0, n)
	for i := 0; i < n; i++ {
		idx := rand.Intn(len(rest))
		hand = append(hand, rest[idx])
		rest = append(rest[:idx], rest[idx+1:]...)
	}
	return hand, rest
}
