package game

import (
	"time"

	"github.com/lazharichir/holdem/events"
)

// TickOutcome reports what a tick did.
type TickOutcome struct {
	Result
	// IdleReset is set when the room was wiped for inactivity.
	IdleReset bool
	// TimedOut is the id of an actor that was folded for running out of time.
	TimedOut string
}

// Tick advances time-driven state: idle resets, turn timeouts and expiry
// of ticker items and emojis. LastUpdate only moves when a reset or a
// timeout happened.
func (e *Engine) Tick(now time.Time) (TickOutcome, error) {
	var out TickOutcome
	e.expire(now)

	if e.idleExpired(now) {
		res, err := e.mutateAt(now, func() error {
			e.resetRoom(StatusIdle)
			e.emit(events.RoomReset{Reason: "idle"})
			return nil
		})
		if err != nil {
			return out, err
		}
		out.Result, out.IdleReset = res, true
		return out, nil
	}

	s := e.state
	if s.Status != StatusPlaying {
		return out, nil
	}
	actor, _ := s.player(s.Round.PlayersTurn)
	if actor == nil || actor.TurnDeadline == nil || !actor.TurnDeadline.Before(now) {
		return out, nil
	}

	id := actor.ID
	res, err := e.mutateAt(now, func() error {
		p, _ := e.state.player(id)
		e.emit(events.PlayerTurnTimeout{PlayerID: p.ID, PlayerName: p.Name})
		p.Leaving = true
		return e.fold(p)
	})
	if err != nil {
		return out, err
	}
	out.Result, out.TimedOut = res, id
	return out, nil
}

func (e *Engine) idleExpired(now time.Time) bool {
	s := e.state
	if s.Round.Deck.IsFresh() && s.Status != StatusComplete {
		return false
	}
	idle := now.Sub(time.UnixMilli(e.updated.Value()))
	switch s.Status {
	case StatusJoining:
		return idle > e.cfg.IdleTimeout
	case StatusComplete:
		return idle > 4*e.cfg.IdleTimeout
	}
	return false
}

func (e *Engine) expire(now time.Time) {
	e.ticker.ClearExpired(now)
	for _, p := range e.state.Players {
		if p.Emoji != nil && !now.Before(p.Emoji.Expires) {
			p.Emoji = nil
		}
	}
}
