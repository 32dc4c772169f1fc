package game

import (
	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/hands"
)

var streetNames = map[int]string{3: "flop", 4: "turn", 5: "river"}

func (e *Engine) needsAction(p *Player) bool {
	if !p.eligible() {
		return false
	}
	b := e.state.Round.Betting
	return !b.Acted[p.ID] || b.PlayerStake(p.ID) < b.CallAmount()
}

// streetSettled reports whether nobody has to act any more on this street:
// every eligible player acted since the last raise and matched the call,
// or at most one player can still act and owes nothing.
func (e *Engine) streetSettled() bool {
	b := e.state.Round.Betting
	call := b.CallAmount()
	eligible := e.ring().Eligible()

	switch len(eligible) {
	case 0:
		return true
	case 1:
		if b.PlayerStake(eligible[0].ID) >= call {
			return true
		}
	}
	for _, p := range eligible {
		if e.needsAction(p) {
			return false
		}
	}
	return true
}

// startStreet picks the first actor of a street, posting blinds on the
// first one. With nobody to act the street completes at once.
func (e *Engine) startStreet() error {
	s := e.state
	ring := e.ring()
	var next *Player

	if len(s.Round.Community) == 0 {
		seats := ring.Eligible()
		e.postBlind(seats[0], e.cfg.SmallBlind, false)
		e.postBlind(seats[1], e.cfg.BigBlind, true)
		s.Round.BigBlindID = seats[1].ID

		// heads-up the small blind acts first
		first := seats[2%len(seats)]
		if e.needsAction(first) {
			next = first
		} else {
			next = ring.scan(ring.index(first.ID), e.needsAction)
		}
	} else {
		next = ring.scan(-1, e.needsAction)
	}

	if next == nil || e.streetSettled() {
		return e.completeStreet()
	}
	e.setTurn(next)
	return nil
}

func (e *Engine) postBlind(p *Player, blind uint64, big bool) {
	amount := min(blind, p.Balance)
	p.Balance -= amount
	p.Stake += amount
	e.state.Round.Pot += amount
	e.state.Round.Betting.raise(p.ID, amount)
	e.emit(events.BlindPosted{PlayerID: p.ID, PlayerName: p.Name, Amount: amount, Big: big})
}

// advance hands the turn on after current acted.
func (e *Engine) advance(current string) error {
	if e.streetSettled() {
		return e.completeStreet()
	}
	ring := e.ring()
	next := ring.scan(ring.index(current), e.needsAction)
	if next == nil {
		return e.completeStreet()
	}
	e.setTurn(next)
	return nil
}

func (e *Engine) setTurn(p *Player) {
	e.state.Round.PlayersTurn = p.ID
	deadline := e.now.Add(e.cfg.TurnTimeout)
	p.TurnDeadline = &deadline
}

func (e *Engine) clearTurn() {
	r := &e.state.Round
	if p, _ := e.state.player(r.PlayersTurn); p != nil {
		p.TurnDeadline = nil
	}
	r.PlayersTurn = ""
}

// completeStreet deals the next street or, after the river, pays out.
func (e *Engine) completeStreet() error {
	r := &e.state.Round
	var deal int
	switch len(r.Community) {
	case 0:
		deal = 3
	case 3, 4:
		deal = 1
	default:
		return e.showdown()
	}

	dealt, err := r.Deck.PopN(deal)
	if err != nil {
		return ErrDeckEmpty
	}
	r.Community = append(r.Community, dealt...)
	e.emit(events.StreetDealt{Street: streetNames[len(r.Community)], Cards: append([]cards.Card(nil), dealt...)})
	r.Betting.reset()
	return e.startStreet()
}

func (e *Engine) showdown() error {
	s := e.state
	r := &s.Round
	if live := s.nonFolded(); len(live) == 1 {
		return e.lastStanding(live[0])
	}

	awards, err := SolvePots(s.Players, r.Community)
	if err != nil {
		return err
	}

	total := r.Pot
	completed := &CompletedRound{HideCards: len(awards) == 0}
	for _, p := range s.nonFolded() {
		completed.Showdown = append(completed.Showdown, p.ID)
	}
	var best *hands.Evaluated
	for _, award := range awards {
		strength := award.Hand.Strength
		if len(award.Winners) == 1 {
			w, _ := s.player(award.Winners[0])
			e.emit(events.Winner{PlayerID: w.ID, PlayerName: w.Name, Hand: &strength})
		} else {
			names := make([]string, 0, len(award.Winners))
			for _, id := range award.Winners {
				w, _ := s.player(id)
				names = append(names, w.Name)
			}
			e.emit(events.SplitPotWinners{PlayerIDs: award.Winners, PlayerNames: names, Hand: strength})
		}

		for i, id := range award.Winners {
			w, _ := s.player(id)
			w.Balance += award.Shares[i]
			r.Pot -= award.Shares[i]
			e.emit(events.PaidPot{PlayerID: w.ID, PlayerName: w.Name, Amount: award.Shares[i]})
			completed.Winners = append(completed.Winners, RoundWinner{
				PlayerID:         id,
				Hand:             &strength,
				Winnings:         award.Shares[i],
				TotalPotWinnings: award.Amount,
			})
		}

		if best == nil || award.Hand.Beats(*best) {
			h := award.Hand
			best = &h
		}
	}

	if best != nil {
		completed.BestHand = &BestHand{Strength: best.Strength}
		seen := map[string]bool{}
		for _, award := range awards {
			if hands.Compare(award.Hand, *best) != 0 {
				continue
			}
			for _, id := range award.Winners {
				if !seen[id] {
					seen[id] = true
					completed.BestHand.PlayerIDs = append(completed.BestHand.PlayerIDs, id)
				}
			}
		}
	}

	// chips nobody could win are lost
	r.Pot = 0
	r.Completed = completed
	e.emit(events.RoundComplete{Pot: total})
	return e.finishHand()
}

// lastStanding awards the whole pot to the only player who did not fold.
func (e *Engine) lastStanding(w *Player) error {
	r := &e.state.Round
	amount := r.Pot
	w.Balance += amount
	r.Pot = 0

	e.emit(events.Winner{PlayerID: w.ID, PlayerName: w.Name})
	e.emit(events.PaidPot{PlayerID: w.ID, PlayerName: w.Name, Amount: amount})
	r.Completed = &CompletedRound{
		Winners:   []RoundWinner{{PlayerID: w.ID, Winnings: amount, TotalPotWinnings: amount}},
		HideCards: true,
	}
	e.emit(events.RoundComplete{Pot: amount})
	return e.finishHand()
}

func (e *Engine) finishHand() error {
	s := e.state
	e.clearTurn()
	for _, p := range s.Players {
		p.Stake = 0
		p.TurnDeadline = nil
	}
	s.Round.Betting.reset()
	s.Status = StatusComplete
	e.rotateDealer()
	e.dormantizeLeaving()
	return e.pauseIfShortHanded()
}

// rotateDealer moves the first seat to the end.
func (e *Engine) rotateDealer() {
	s := e.state
	if len(s.Players) < 2 {
		return
	}
	rotated := make([]*Player, 0, len(s.Players))
	rotated = append(rotated, s.Players[1:]...)
	s.Players = append(rotated, s.Players[0])
}

func (e *Engine) dormantizeLeaving() {
	s := e.state
	kept := s.Players[:0:0]
	for _, p := range s.Players {
		if !p.Leaving {
			kept = append(kept, p)
			continue
		}
		p.Leaving = false
		p.Stake = 0
		p.TurnDeadline = nil
		s.Dormant[dormantKey(p)] = p
		e.emit(events.PlayerLeft{PlayerID: p.ID, PlayerName: p.Name})
	}
	s.Players = kept
}

// pauseIfShortHanded sends a room that lost its table back to Joining
// with a fresh round. Chips still in play go back to their owners.
func (e *Engine) pauseIfShortHanded() error {
	s := e.state
	if len(s.Players) >= 2 || s.Status == StatusJoining || s.Status == StatusIdle {
		return nil
	}

	for _, p := range s.Players {
		p.Balance += p.Stake
	}
	s.Round = Round{Deck: cards.NewShuffledDeck(e.shuffler)}
	s.Status = StatusJoining
	for _, p := range s.Players {
		p.Stake = 0
		p.Folded = false
		p.TurnDeadline = nil
		p.HideCards = false
		if err := e.dealHole(p); err != nil {
			return err
		}
	}
	return nil
}
