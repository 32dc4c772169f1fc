package game

import (
	"sort"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/hands"
)

// Pot is one layer of the hand's chips, contested by Contributors.
type Pot struct {
	Amount       uint64
	Contributors []string // seat order
}

// PotAward is a pot together with who won it and how it was split.
// Shares lines up with Winners.
type PotAward struct {
	Pot
	Winners []string
	Shares  []uint64
	Hand    hands.Evaluated
}

// BuildPots layers the hand's stakes into a main pot and side pots.
// Every distinct stake among players still in the hand closes a layer.
// Folded chips fund each layer their stake reaches; anything above the
// top layer goes to the top pot.
func BuildPots(players []*Player) []Pot {
	var live []*Player
	levelSet := map[uint64]bool{}
	for _, p := range players {
		if p.Folded {
			continue
		}
		live = append(live, p)
		if p.Stake > 0 {
			levelSet[p.Stake] = true
		}
	}
	if len(live) == 0 {
		return nil
	}

	levels := make([]uint64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	if len(levels) == 0 {
		ids := make([]string, 0, len(live))
		for _, p := range live {
			ids = append(ids, p.ID)
		}
		pot := Pot{Contributors: ids}
		for _, p := range players {
			pot.Amount += p.Stake
		}
		return []Pot{pot}
	}

	pots := make([]Pot, len(levels))
	var prev uint64
	for i, cur := range levels {
		for _, p := range live {
			if p.Stake >= cur {
				pots[i].Contributors = append(pots[i].Contributors, p.ID)
			}
		}
		pots[i].Amount = (cur - prev) * uint64(len(pots[i].Contributors))
		prev = cur
	}

	top := levels[len(levels)-1]
	for _, p := range players {
		if !p.Folded || p.Stake == 0 {
			continue
		}
		prev = 0
		for i, cur := range levels {
			pots[i].Amount += min(p.Stake, cur) - min(p.Stake, prev)
			prev = cur
		}
		if p.Stake > top {
			pots[len(pots)-1].Amount += p.Stake - top
		}
	}

	return pots
}

// SolvePots builds the pots and awards each to the best hand among its
// contributors. Ties split evenly; odd chips go one each to the tied
// winners in seat order.
func SolvePots(players []*Player, community []cards.Card) ([]PotAward, error) {
	evaluated := map[string]hands.Evaluated{}
	for _, p := range players {
		if p.Folded {
			continue
		}
		e, err := hands.Evaluate(p.Cards, community)
		if err != nil {
			return nil, err
		}
		evaluated[p.ID] = e
	}

	var awards []PotAward
	for _, pot := range BuildPots(players) {
		if pot.Amount == 0 {
			continue
		}

		award := PotAward{Pot: pot}
		for _, id := range pot.Contributors {
			switch c := hands.Compare(evaluated[id], award.Hand); {
			case len(award.Winners) == 0 || c > 0:
				award.Winners = []string{id}
				award.Hand = evaluated[id]
			case c == 0:
				award.Winners = append(award.Winners, id)
			}
		}

		n := uint64(len(award.Winners))
		share, odd := pot.Amount/n, pot.Amount%n
		award.Shares = make([]uint64, len(award.Winners))
		for i := range award.Winners {
			award.Shares[i] = share
			if uint64(i) < odd {
				award.Shares[i]++
			}
		}
		awards = append(awards, award)
	}
	return awards, nil
}
