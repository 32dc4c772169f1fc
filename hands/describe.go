package hands

import (
	"fmt"

	"github.com/lazharichir/holdem/cards"
	"github.com/paulhankin/poker"
)

var pokerSuits = map[cards.Suit]poker.Suit{
	cards.Clubs:    poker.Club,
	cards.Diamonds: poker.Diamond,
	cards.Hearts:   poker.Heart,
	cards.Spades:   poker.Spade,
}

func toPokerCard(c cards.Card) (poker.Card, error) {
	var zero poker.Card
	suit, ok := pokerSuits[c.Suit]
	if !ok {
		return zero, fmt.Errorf("invalid card suit: %s", c.Suit)
	}
	rank := c.Rank()
	if rank == 14 {
		rank = 1
	}
	return poker.MakeCard(suit, poker.Rank(rank))
}

// Describe renders the best hand in a set of five to seven cards in words,
// e.g. "ace-high flush".
func Describe(hand []cards.Card) (string, error) {
	if len(hand) < 5 || len(hand) > 7 {
		return "", ErrNotEnoughCards
	}
	pc := make([]poker.Card, 0, len(hand))
	for _, c := range hand {
		card, err := toPokerCard(c)
		if err != nil {
			return "", err
		}
		pc = append(pc, card)
	}
	return poker.Describe(pc)
}

// Score7 is an independent numeric score of a seven-card hand where higher
// is better. It is used to cross-check Evaluate.
func Score7(hand [7]cards.Card) (int16, error) {
	var pc [7]poker.Card
	for i, c := range hand {
		card, err := toPokerCard(c)
		if err != nil {
			return 0, err
		}
		pc[i] = card
	}
	return poker.Eval7(&pc), nil
}
