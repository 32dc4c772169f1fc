package game

import (
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/hands"
)

// Status is the phase of a room.
type Status string

const (
	StatusJoining  Status = "joining"
	StatusPlaying  Status = "playing"
	StatusComplete Status = "complete"
	StatusIdle     Status = "idle"
)

// Round is one hand.
type Round struct {
	Pot         uint64
	Deck        cards.Deck
	Community   []cards.Card
	PlayersTurn string
	Betting     BettingRound
	BigBlindID  string
	Completed   *CompletedRound
}

// CompletedRound is the frozen outcome of a hand.
type CompletedRound struct {
	Winners  []RoundWinner
	BestHand *BestHand
	// Showdown lists the players whose cards were live at the end.
	Showdown  []string
	HideCards bool
}

// RoundWinner is one recipient of one pot. Winnings is the recipient's
// share, TotalPotWinnings the size of the pot it came from.
type RoundWinner struct {
	PlayerID         string
	Hand             *hands.Strength
	Winnings         uint64
	TotalPotWinnings uint64
}

// BestHand names the winners holding the strongest hand of the showdown.
type BestHand struct {
	PlayerIDs []string
	Strength  hands.Strength
}

// RoomState is everything one room owns.
type RoomState struct {
	Players []*Player // seat order, seat 0 posts the small blind
	Dormant map[string]*Player
	Round   Round
	Status  Status
}

func newRoomState(deck cards.Deck, status Status) *RoomState {
	return &RoomState{
		Dormant: map[string]*Player{},
		Round:   Round{Deck: deck},
		Status:  status,
	}
}

func (s *RoomState) clone() *RoomState {
	c := &RoomState{
		Players: make([]*Player, len(s.Players)),
		Dormant: make(map[string]*Player, len(s.Dormant)),
		Round:   s.Round,
		Status:  s.Status,
	}
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	for k, p := range s.Dormant {
		c.Dormant[k] = p.clone()
	}
	c.Round.Deck = s.Round.Deck.Clone()
	c.Round.Community = append([]cards.Card(nil), s.Round.Community...)
	c.Round.Betting = s.Round.Betting.clone()
	return c
}

func (s *RoomState) player(id string) (*Player, int) {
	for i, p := range s.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

func (s *RoomState) nonFolded() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if !p.Folded {
			out = append(out, p)
		}
	}
	return out
}

// dormantKey is the apid, or the id for players who never sent one.
func dormantKey(p *Player) string {
	if p.Apid != "" {
		return p.Apid
	}
	return "id:" + p.ID
}
