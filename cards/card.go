package cards

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Suits in canonical deck order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Value represents a card value
type Value string

const (
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "10"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
	Ace   Value = "A"
)

// Values in canonical deck order, lowest first.
var Values = []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// Rank returns the numeric rank of the value, 2 through 14 with the ace high.
// An unknown value ranks 0.
func (v Value) Rank() int {
	for i, value := range Values {
		if value == v {
			return i + 2
		}
	}
	return 0
}

// ValueOfRank is the inverse of Value.Rank. Rank 1 is the low ace.
func ValueOfRank(rank int) Value {
	if rank == 1 {
		return Ace
	}
	if rank < 2 || rank > 14 {
		return ""
	}
	return Values[rank-2]
}

// Card represents a playing card
type Card struct {
	Suit  Suit  `json:"suit"`
	Value Value `json:"value"`
}

// String returns the string representation of a card
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Value, c.Suit)
}

// Rank is shorthand for c.Value.Rank().
func (c Card) Rank() int {
	return c.Value.Rank()
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Value == other.Value
}

// Valid reports whether both suit and value are known.
func (c Card) Valid() bool {
	if c.Value.Rank() == 0 {
		return false
	}
	for _, s := range Suits {
		if s == c.Suit {
			return true
		}
	}
	return false
}

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "10S" or "Ts" -> Card{Suit: Spades, Value: Ten}
func CardFromString(s string) (Card, error) {
	r := []rune(s)
	if len(r) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	var suit Suit
	switch string(r[len(r)-1]) {
	case "♠", "s", "S":
		suit = Spades
	case "♥", "h", "H":
		suit = Hearts
	case "♦", "d", "D":
		suit = Diamonds
	case "♣", "c", "C":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %s", string(r[len(r)-1]))
	}

	raw := strings.ToUpper(string(r[:len(r)-1]))
	if raw == "T" {
		raw = "10"
	}
	value := Value(raw)
	if value.Rank() == 0 {
		return Card{}, fmt.Errorf("invalid card value: %s", raw)
	}

	return Card{Suit: suit, Value: value}, nil
}

// ParseCards parses a whitespace separated list such as "As Kd 10h".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := CardFromString(f)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	out, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return out
}
