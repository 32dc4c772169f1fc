package hands

import (
	"testing"

	"github.com/lazharichir/holdem/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func hole(s string) [2]cards.Card {
	cs := cards.MustParseCards(s)
	return [2]cards.Card{cs[0], cs[1]}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		hole      string
		community string
		strength  Strength
		ranks     [5]int
	}{
		{"royal flush", "Ah Kh", "Qh Jh 10h 9h 8h", RoyalFlush, [5]int{14, 13, 12, 11, 10}},
		{"wheel straight", "5h 4d", "3h 2h Ac Kc Jd", Straight, [5]int{5, 4, 3, 2, 1}},
		{"straight flush", "9s 8s", "7s 6s 5s 2d 2c", StraightFlush, [5]int{9, 8, 7, 6, 5}},
		{"steel wheel", "As 2s", "3s 4s 5s Kd Kc", StraightFlush, [5]int{5, 4, 3, 2, 1}},
		{"four of a kind", "Ah Ad", "Ac As Kd Qc 2h", FourOfAKind, [5]int{14, 14, 14, 14, 13}},
		{"full house from two triples", "Kh Kd", "Kc 7s 7h 7d 2c", FullHouse, [5]int{13, 13, 13, 7, 7}},
		{"full house picks highest pair", "9h 9d", "9c 5s 5h Qd Qc", FullHouse, [5]int{9, 9, 9, 12, 12}},
		{"flush beats pair", "Ah 3h", "9h 7h 2h Kd Kc", Flush, [5]int{14, 9, 7, 3, 2}},
		{"flush of six suited", "Ah 3h", "9h 7h 2h 5h Kd", Flush, [5]int{14, 9, 7, 5, 3}},
		{"straight", "10d 9c", "8h 7s 6d 2c 2h", Straight, [5]int{10, 9, 8, 7, 6}},
		{"six card straight", "Jd 10c", "9h 8s 7d 6c 2h", Straight, [5]int{11, 10, 9, 8, 7}},
		{"three of a kind", "7h 7d", "7c Ks 2h 9d 4c", ThreeOfAKind, [5]int{7, 7, 7, 13, 9}},
		{"two pair from three pairs", "Ah Ad", "Kc Ks 5h 5d 9c", TwoPair, [5]int{14, 14, 13, 13, 9}},
		{"third pair as kicker", "Qh Qd", "8c 8s 6h 6d 2c", TwoPair, [5]int{12, 12, 8, 8, 6}},
		{"one pair", "Jh Jd", "2c 5s 8h Kd Ac", OnePair, [5]int{11, 11, 14, 13, 8}},
		{"high card", "Ah 3d", "5c 7s 9h Jd Kc", HighCard, [5]int{14, 13, 11, 9, 7}},
		{"five cards only", "Ah Kd", "Qc Js 9h", HighCard, [5]int{14, 13, 12, 11, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(hole(tt.hole), cards.MustParseCards(tt.community))
			require.NoError(t, err)
			assert.Equal(t, tt.strength, got.Strength)
			assert.Equal(t, tt.ranks, got.Ranks)
		})
	}
}

func TestEvaluateWheelValues(t *testing.T) {
	got, err := Evaluate(hole("5h 4d"), cards.MustParseCards("3h 2h Ac Kc Jd"))
	require.NoError(t, err)
	assert.Equal(t, [5]cards.Value{cards.Five, cards.Four, cards.Three, cards.Two, cards.Ace}, got.Values())
}

func TestEvaluateNotEnoughCards(t *testing.T) {
	_, err := Evaluate(hole("Ah Kd"), cards.MustParseCards("Qc Js"))
	assert.ErrorIs(t, err, ErrNotEnoughCards)

	_, err = EvaluateCards(cards.MustParseCards("Ah Kd Qc Js 9h 8h 7h 6h"))
	assert.ErrorIs(t, err, ErrNotEnoughCards)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		board string
		want  int
	}{
		{"kicker decides", "Ah Kd", "As Qd", "2c 5s 8h 9d Jc", 1},
		{"board plays for both", "2c 3d", "2d 3s", "Ah Kh Qh Jh 10h", 0},
		{"wheel loses to six high straight", "Ah 2d", "6h 2s", "3c 4d 5s Kh Kd", -1},
		{"flush beats straight", "2h 9h", "10c Jd", "Qh 8h 9c 3h 7s", 1},
		{"higher two pair", "Ah 9d", "Kh Kd", "As 9c 2d 2s 7h", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := cards.MustParseCards(tt.board)
			a, err := Evaluate(hole(tt.a), board)
			require.NoError(t, err)
			b, err := Evaluate(hole(tt.b), board)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Compare(a, b))
			assert.Equal(t, -tt.want, Compare(b, a))
			assert.Equal(t, tt.want > 0, a.Beats(b))
		})
	}
}

func drawSeven(t *rapid.T, label string) [7]cards.Card {
	deck := rapid.Permutation(cards.NewOrderedDeck().Cards()).Draw(t, label)
	var hand [7]cards.Card
	copy(hand[:], deck[:7])
	return hand
}

func mustEvaluate(t *rapid.T, hand []cards.Card) Evaluated {
	e, err := EvaluateCards(hand)
	if err != nil {
		t.Fatalf("evaluate %v: %v", hand, err)
	}
	return e
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func TestEvaluatePermutationInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hand := drawSeven(t, "hand")
		shuffled := rapid.Permutation(hand[:]).Draw(t, "order")
		if mustEvaluate(t, hand[:]) != mustEvaluate(t, shuffled) {
			t.Fatalf("evaluation depends on card order: %v vs %v", hand, shuffled)
		}
	})
}

func TestCompareIsTotalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := mustEvaluate(t, func() []cards.Card { h := drawSeven(t, "a"); return h[:] }())
		b := mustEvaluate(t, func() []cards.Card { h := drawSeven(t, "b"); return h[:] }())
		c := mustEvaluate(t, func() []cards.Card { h := drawSeven(t, "c"); return h[:] }())

		if Compare(a, a) != 0 {
			t.Fatalf("not reflexive: %v", a)
		}
		if Compare(a, b) != -Compare(b, a) {
			t.Fatalf("not antisymmetric: %v %v", a, b)
		}
		if Compare(a, b) >= 0 && Compare(b, c) >= 0 && Compare(a, c) < 0 {
			t.Fatalf("not transitive: %v %v %v", a, b, c)
		}
		if Compare(a, b) == 0 && a != b {
			t.Fatalf("equal compare for different hands: %v %v", a, b)
		}
	})
}

func TestEvaluateAgreesWithReferenceScore(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := drawSeven(t, "x")
		y := drawSeven(t, "y")

		sx, err := Score7(x)
		if err != nil {
			t.Fatal(err)
		}
		sy, err := Score7(y)
		if err != nil {
			t.Fatal(err)
		}

		got := Compare(mustEvaluate(t, x[:]), mustEvaluate(t, y[:]))
		if got != sign(int(sx)-int(sy)) {
			t.Fatalf("%v vs %v: compare %d, reference %d vs %d", x, y, got, sx, sy)
		}
	})
}

func TestDescribe(t *testing.T) {
	desc, err := Describe(cards.MustParseCards("Ah Kh Qh Jh 10h 2c 3d"))
	require.NoError(t, err)
	assert.NotEmpty(t, desc)

	_, err = Describe(cards.MustParseCards("Ah Kh"))
	assert.ErrorIs(t, err, ErrNotEnoughCards)
}

func TestStrengthString(t *testing.T) {
	assert.Equal(t, "Royal Flush", RoyalFlush.String())
	assert.Equal(t, "High Card", HighCard.String())
	assert.True(t, HighCard < OnePair && StraightFlush < RoyalFlush)
}
