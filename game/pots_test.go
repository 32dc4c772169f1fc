package game

import (
	"testing"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/hands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staked(id string, stake uint64, folded bool, hole string) *Player {
	cs := cards.MustParseCards(hole)
	return &Player{ID: id, Stake: stake, Folded: folded, Cards: [2]cards.Card{cs[0], cs[1]}}
}

func TestBuildPots(t *testing.T) {
	tests := []struct {
		name    string
		players []*Player
		want    []Pot
	}{
		{
			name: "equal stakes make one pot",
			players: []*Player{
				staked("a", 100, false, "2c 3c"),
				staked("b", 100, false, "2d 3d"),
			},
			want: []Pot{{Amount: 200, Contributors: []string{"a", "b"}}},
		},
		{
			name: "all-in opens a side pot",
			players: []*Player{
				staked("a", 50, false, "2c 3c"),
				staked("b", 200, false, "2d 3d"),
				staked("c", 200, false, "2h 3h"),
			},
			want: []Pot{
				{Amount: 150, Contributors: []string{"a", "b", "c"}},
				{Amount: 300, Contributors: []string{"b", "c"}},
			},
		},
		{
			name: "folded chips fund the layers they reach",
			players: []*Player{
				staked("a", 50, false, "2c 3c"),
				staked("b", 200, false, "2d 3d"),
				staked("f", 120, true, "2h 3h"),
			},
			want: []Pot{
				{Amount: 150, Contributors: []string{"a", "b"}},
				{Amount: 220, Contributors: []string{"b"}},
			},
		},
		{
			name: "folded excess lands in the top pot",
			players: []*Player{
				staked("a", 20, false, "2c 3c"),
				staked("b", 20, false, "2d 3d"),
				staked("f", 60, true, "2h 3h"),
			},
			want: []Pot{{Amount: 100, Contributors: []string{"a", "b"}}},
		},
		{
			name:    "everyone folded",
			players: []*Player{staked("f", 20, true, "2h 3h")},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPots(tt.players))
		})
	}
}

func TestSolvePots(t *testing.T) {
	board := cards.MustParseCards("As 9c 4s 3h 8c")

	t.Run("side pots go to different winners", func(t *testing.T) {
		players := []*Player{
			staked("short", 50, false, "Ah Ad"),
			staked("kings", 200, false, "Kh Kd"),
			staked("air", 200, false, "2c 7d"),
		}
		awards, err := SolvePots(players, board)
		require.NoError(t, err)
		require.Len(t, awards, 2)

		assert.Equal(t, []string{"short"}, awards[0].Winners)
		assert.Equal(t, []uint64{150}, awards[0].Shares)
		assert.Equal(t, hands.ThreeOfAKind, awards[0].Hand.Strength)

		assert.Equal(t, []string{"kings"}, awards[1].Winners)
		assert.Equal(t, []uint64{300}, awards[1].Shares)
	})

	t.Run("odd chips go to the earliest seats", func(t *testing.T) {
		royal := cards.MustParseCards("As Ks Qs Js 10s")
		players := []*Player{
			staked("a", 7, false, "2c 3d"),
			staked("b", 7, false, "2d 3c"),
			staked("c", 7, false, "2h 4c"),
			staked("f", 3, true, "5h 6c"),
		}
		awards, err := SolvePots(players, royal)
		require.NoError(t, err)
		require.Len(t, awards, 1)
		assert.Equal(t, uint64(24), awards[0].Amount)
		assert.Equal(t, []string{"a", "b", "c"}, awards[0].Winners)
		assert.Equal(t, []uint64{8, 8, 8}, awards[0].Shares)

		players[3].Stake = 4
		awards, err = SolvePots(players, royal)
		require.NoError(t, err)
		assert.Equal(t, []uint64{9, 8, 8}, awards[0].Shares)
	})

	t.Run("hands need a board", func(t *testing.T) {
		_, err := SolvePots([]*Player{staked("a", 10, false, "2c 3d")}, nil)
		assert.ErrorIs(t, err, hands.ErrNotEnoughCards)
	})
}
