package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedDeck(t *testing.T) {
	t.Run("popping 52 yields every card once", func(t *testing.T) {
		deck := NewOrderedDeck()
		require.True(t, deck.IsFresh())

		seen := map[Card]bool{}
		for i := 0; i < DeckSize; i++ {
			c, err := deck.Pop()
			require.NoError(t, err)
			assert.True(t, c.Valid(), "card %v", c)
			assert.False(t, seen[c], "duplicate %v", c)
			seen[c] = true
		}
		assert.Len(t, seen, DeckSize)

		_, err := deck.Pop()
		assert.ErrorIs(t, err, ErrDeckEmpty)
	})

	t.Run("canonical order deals from the end", func(t *testing.T) {
		deck := NewOrderedDeck()
		first, err := deck.PopN(3)
		require.NoError(t, err)
		assert.Equal(t, MustParseCards("As Ks Qs"), first)
		assert.False(t, deck.IsFresh())
		assert.Equal(t, 49, deck.Len())
		assert.Equal(t, Card{Suit: Hearts, Value: Two}, deck.Cards()[0])
	})

	t.Run("PopN past the end fails without dealing", func(t *testing.T) {
		deck := DeckOf(MustParseCards("2h 3h")...)
		_, err := deck.PopN(3)
		assert.ErrorIs(t, err, ErrDeckEmpty)
		assert.Equal(t, 2, deck.Len())
	})

	t.Run("clone is independent", func(t *testing.T) {
		deck := NewOrderedDeck()
		clone := deck.Clone()
		_, _ = clone.Pop()
		assert.True(t, deck.IsFresh())
		assert.False(t, clone.IsFresh())
	})
}

func TestShuffledDeck(t *testing.T) {
	t.Run("ordered shuffler keeps canonical order", func(t *testing.T) {
		assert.Equal(t, NewOrderedDeck().Cards(), NewShuffledDeck(OrderedShuffler{}).Cards())
	})

	t.Run("seeded shuffler is a reproducible permutation", func(t *testing.T) {
		a := NewShuffledDeck(NewSeededShuffler(42))
		b := NewShuffledDeck(NewSeededShuffler(42))
		assert.Equal(t, a.Cards(), b.Cards())
		assert.ElementsMatch(t, NewOrderedDeck().Cards(), a.Cards())
		assert.NotEqual(t, NewOrderedDeck().Cards(), a.Cards())
	})
}
