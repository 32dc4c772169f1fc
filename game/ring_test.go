package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seats(defs ...string) []*Player {
	out := make([]*Player, 0, len(defs))
	for _, s := range defs {
		p := &Player{ID: s[:1], Balance: 100}
		switch s[1:] {
		case "-folded":
			p.Folded = true
		case "-broke":
			p.Balance = 0
		}
		out = append(out, p)
	}
	return out
}

func ids(players []*Player) []string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func TestTurnRing(t *testing.T) {
	ring := newTurnRing(seats("a", "b-folded", "c", "d-broke", "e"))

	assert.Equal(t, []string{"a", "c", "e"}, ids(ring.Eligible()))
	assert.Equal(t, "a", ring.FirstEligible().ID)

	tests := []struct {
		after string
		want  string
	}{
		{"a", "c"},
		{"b", "c"},
		{"c", "e"},
		{"e", "a"},
	}
	for _, tt := range tests {
		t.Run("after "+tt.after, func(t *testing.T) {
			assert.Equal(t, tt.want, ring.NextEligibleAfter(tt.after).ID)
		})
	}

	t.Run("a lone eligible player comes back to itself", func(t *testing.T) {
		ring := newTurnRing(seats("a", "b-folded"))
		assert.Equal(t, "a", ring.NextEligibleAfter("a").ID)
	})

	t.Run("nobody eligible", func(t *testing.T) {
		ring := newTurnRing(seats("a-folded", "b-broke"))
		assert.Nil(t, ring.FirstEligible())
		assert.Empty(t, ring.Eligible())
		assert.Nil(t, newTurnRing(nil).FirstEligible())
	})
}
