package hands

import (
	"errors"
	"sort"

	"github.com/lazharichir/holdem/cards"
)

// Strength is the category of a poker hand
type Strength int

const (
	HighCard Strength = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var strengthNames = map[Strength]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (s Strength) String() string {
	if name, ok := strengthNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var ErrNotEnoughCards = errors.New("not enough cards to evaluate a hand")

// Evaluated is a hand category plus five ranks ordered by significance.
// A low ace in a wheel is recorded as rank 1.
type Evaluated struct {
	Strength Strength `json:"strength"`
	Ranks    [5]int   `json:"ranks"`
}

// Values returns the tiebreaker ranks as card values.
func (e Evaluated) Values() [5]cards.Value {
	var out [5]cards.Value
	for i, r := range e.Ranks {
		out[i] = cards.ValueOfRank(r)
	}
	return out
}

// Compare returns -1, 0 or 1 as a is weaker than, equal to or stronger than b.
func Compare(a, b Evaluated) int {
	if a.Strength != b.Strength {
		if a.Strength < b.Strength {
			return -1
		}
		return 1
	}
	for i := range a.Ranks {
		if a.Ranks[i] != b.Ranks[i] {
			if a.Ranks[i] < b.Ranks[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Beats reports whether e is strictly stronger than other.
func (e Evaluated) Beats(other Evaluated) bool {
	return Compare(e, other) > 0
}

// Evaluate scores two hole cards against three to five community cards.
func Evaluate(hole [2]cards.Card, community []cards.Card) (Evaluated, error) {
	if len(community) < 3 || len(community) > 5 {
		return Evaluated{}, ErrNotEnoughCards
	}
	all := make([]cards.Card, 0, 7)
	all = append(all, hole[0], hole[1])
	all = append(all, community...)
	return EvaluateCards(all)
}

// EvaluateCards picks the best five-card hand out of five to seven cards.
func EvaluateCards(hand []cards.Card) (Evaluated, error) {
	if len(hand) < 5 || len(hand) > 7 {
		return Evaluated{}, ErrNotEnoughCards
	}

	ranks := make([]int, 0, len(hand))
	bySuit := map[cards.Suit][]int{}
	counts := map[int]int{}
	for _, c := range hand {
		r := c.Rank()
		ranks = append(ranks, r)
		bySuit[c.Suit] = append(bySuit[c.Suit], r)
		counts[r]++
	}
	sortDesc(ranks)

	var flushRanks []int
	for _, suited := range bySuit {
		if len(suited) >= 5 {
			flushRanks = append([]int(nil), suited...)
			sortDesc(flushRanks)
		}
	}

	if flushRanks != nil {
		if high := straightHigh(flushRanks); high > 0 {
			if high == 14 {
				return Evaluated{Strength: RoyalFlush, Ranks: run(high)}, nil
			}
			return Evaluated{Strength: StraightFlush, Ranks: run(high)}, nil
		}
	}

	// groups ordered by count then rank, both descending
	groups := make([]int, 0, len(counts))
	for r := range counts {
		groups = append(groups, r)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] > groups[j]
	})

	top := groups[0]
	if counts[top] == 4 {
		return Evaluated{Strength: FourOfAKind, Ranks: [5]int{top, top, top, top, kickers(ranks, 1, top)[0]}}, nil
	}

	if counts[top] == 3 && len(groups) > 1 {
		// the best remaining pair may come from a second triple
		pair := 0
		for _, r := range groups[1:] {
			if counts[r] >= 2 && r > pair {
				pair = r
			}
		}
		if pair > 0 {
			return Evaluated{Strength: FullHouse, Ranks: [5]int{top, top, top, pair, pair}}, nil
		}
	}

	if flushRanks != nil {
		var r [5]int
		copy(r[:], flushRanks[:5])
		return Evaluated{Strength: Flush, Ranks: r}, nil
	}

	if high := straightHigh(ranks); high > 0 {
		return Evaluated{Strength: Straight, Ranks: run(high)}, nil
	}

	switch {
	case counts[top] == 3:
		k := kickers(ranks, 2, top)
		return Evaluated{Strength: ThreeOfAKind, Ranks: [5]int{top, top, top, k[0], k[1]}}, nil
	case counts[top] == 2 && len(groups) > 1 && counts[groups[1]] == 2:
		second := groups[1]
		k := kickers(ranks, 1, top, second)
		return Evaluated{Strength: TwoPair, Ranks: [5]int{top, top, second, second, k[0]}}, nil
	case counts[top] == 2:
		k := kickers(ranks, 3, top)
		return Evaluated{Strength: OnePair, Ranks: [5]int{top, top, k[0], k[1], k[2]}}, nil
	}

	k := kickers(ranks, 5)
	return Evaluated{Strength: HighCard, Ranks: [5]int{k[0], k[1], k[2], k[3], k[4]}}, nil
}

// straightHigh returns the top rank of the best five-card run in ranks,
// or 0 when there is none. ranks must be sorted descending.
func straightHigh(ranks []int) int {
	distinct := make([]int, 0, len(ranks)+1)
	for _, r := range ranks {
		if len(distinct) == 0 || distinct[len(distinct)-1] != r {
			distinct = append(distinct, r)
		}
	}
	if len(distinct) > 0 && distinct[0] == 14 {
		distinct = append(distinct, 1)
	}
	for i := 0; i+4 < len(distinct); i++ {
		if distinct[i]-distinct[i+4] == 4 {
			return distinct[i]
		}
	}
	return 0
}

func run(high int) [5]int {
	return [5]int{high, high - 1, high - 2, high - 3, high - 4}
}

// kickers returns the n highest distinct ranks not in exclude.
// ranks must be sorted descending.
func kickers(ranks []int, n int, exclude ...int) []int {
	out := make([]int, 0, n)
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		if contains(exclude, r) || contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	for len(out) < n {
		out = append(out, 0)
	}
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func sortDesc(xs []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(xs)))
}
