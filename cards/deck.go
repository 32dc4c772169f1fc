package cards

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

var ErrDeckEmpty = errors.New("deck is empty")

// Shuffler permutes cards in place.
type Shuffler interface {
	Shuffle(cards []Card)
}

// RandomShuffler shuffles with a math/rand source.
type RandomShuffler struct {
	rng *rand.Rand
}

// NewRandomShuffler returns a shuffler seeded from the runtime's entropy.
func NewRandomShuffler() *RandomShuffler {
	return &RandomShuffler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededShuffler returns a reproducible shuffler.
func NewSeededShuffler(seed uint64) *RandomShuffler {
	return &RandomShuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandomShuffler) Shuffle(cards []Card) {
	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// OrderedShuffler leaves the deck in canonical order.
type OrderedShuffler struct{}

func (OrderedShuffler) Shuffle([]Card) {}

// Deck is a supply of cards dealt from the end.
type Deck struct {
	cards []Card
}

// NewOrderedDeck creates a standard deck of 52 cards in canonical order:
// hearts, diamonds, clubs, spades, each from two to ace.
func NewOrderedDeck() Deck {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, value := range Values {
			deck = append(deck, Card{Suit: suit, Value: value})
		}
	}
	return Deck{cards: deck}
}

// NewShuffledDeck returns an ordered deck permuted by s.
func NewShuffledDeck(s Shuffler) Deck {
	d := NewOrderedDeck()
	s.Shuffle(d.cards)
	return d
}

// DeckOf builds a deck from explicit cards; the last card is dealt first.
func DeckOf(cards ...Card) Deck {
	return Deck{cards: append([]Card(nil), cards...)}
}

// Pop deals one card.
func (d *Deck) Pop() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckEmpty
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// PopN deals n cards in the order they come off the deck.
func (d *Deck) PopN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrDeckEmpty
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Pop()
		out = append(out, c)
	}
	return out, nil
}

// IsFresh reports whether no card has been dealt yet.
func (d Deck) IsFresh() bool {
	return len(d.cards) == DeckSize
}

func (d Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first.
func (d Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Clone returns an independent copy.
func (d Deck) Clone() Deck {
	return Deck{cards: d.Cards()}
}
