package game

import (
	"slices"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/hands"
	"github.com/lazharichir/holdem/ticker"
)

// Phase is the client-facing name of a room status.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseComplete Phase = "complete"
)

func (s Status) Phase() Phase {
	switch s {
	case StatusPlaying:
		return PhasePlaying
	case StatusComplete:
		return PhaseComplete
	case StatusIdle:
		return PhaseIdle
	}
	return PhaseWaiting
}

type RoomView struct {
	State      Phase            `json:"state"`
	Players    []RoomPlayerView `json:"players"`
	Pot        uint64           `json:"pot"`
	Cards      []cards.Card     `json:"cards"`
	Completed  *CompletedView   `json:"completed"`
	Ticker     []ticker.Item    `json:"ticker"`
	RoomCode   string           `json:"roomCode,omitempty"`
	LastUpdate int64            `json:"lastUpdate"`
}

type RoomPlayerView struct {
	Name          string  `json:"name"`
	Balance       uint64  `json:"balance"`
	Stake         uint64  `json:"stake"`
	Folded        bool    `json:"folded"`
	Emoji         *string `json:"emoji"`
	Photo         *string `json:"photo"`
	ColorHue      uint16  `json:"colorHue"`
	TurnExpiresDt *int64  `json:"turnExpiresDt"`
}

type CompletedView struct {
	WinnerName  *string          `json:"winnerName"`
	WinningHand *string          `json:"winningHand"`
	PlayerCards []*[2]cards.Card `json:"playerCards"`
	Winners     []WinnerView     `json:"winners"`
}

type WinnerView struct {
	Name             string          `json:"name"`
	Hand             *hands.Strength `json:"hand"`
	Winnings         uint64          `json:"winnings"`
	TotalPotWinnings uint64          `json:"totalPotWinnings"`
}

type PlayerView struct {
	State             Phase         `json:"state"`
	Balance           uint64        `json:"balance"`
	Cards             [2]cards.Card `json:"cards"`
	YourTurn          bool          `json:"yourTurn"`
	CallAmount        uint64        `json:"callAmount"`
	MinRaiseTo        uint64        `json:"minRaiseTo"`
	PlayersCount      int           `json:"playersCount"`
	TurnExpiresDt     *int64        `json:"turnExpiresDt"`
	LastUpdate        int64         `json:"lastUpdate"`
	CurrentRoundStake uint64        `json:"currentRoundStake"`
}

type PeekView struct {
	State            Phase   `json:"state"`
	PlayersCount     int     `json:"playersCount"`
	CanResume        bool    `json:"canResume"`
	ResumePlayerName *string `json:"resumePlayerName"`
}

func millis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// RoomView projects the table as every client sees it.
func (e *Engine) RoomView(now time.Time) RoomView {
	s := e.state
	v := RoomView{
		State:      s.Status.Phase(),
		Players:    make([]RoomPlayerView, 0, len(s.Players)),
		Pot:        s.Round.Pot,
		Cards:      append([]cards.Card{}, s.Round.Community...),
		Ticker:     e.ticker.ActiveItems(now),
		LastUpdate: e.updated.Value(),
	}

	for _, p := range s.Players {
		pv := RoomPlayerView{
			Name:     p.Name,
			Balance:  p.Balance,
			Stake:    p.Stake,
			Folded:   p.Folded,
			ColorHue: ColorHue(p.ID),
		}
		if p.Emoji != nil && now.Before(p.Emoji.Expires) {
			glyph := p.Emoji.Emoji.Glyph()
			pv.Emoji = &glyph
		}
		if p.Photo != "" {
			photo := p.Photo
			pv.Photo = &photo
		}
		if s.Status == StatusPlaying && s.Round.PlayersTurn == p.ID {
			pv.TurnExpiresDt = millis(p.TurnDeadline)
		}
		v.Players = append(v.Players, pv)
	}

	if c := s.Round.Completed; c != nil {
		v.Completed = e.completedView(c)
	}
	return v
}

func (e *Engine) completedView(c *CompletedRound) *CompletedView {
	s := e.state
	cv := &CompletedView{PlayerCards: make([]*[2]cards.Card, len(s.Players))}

	for i, p := range s.Players {
		if c.HideCards || p.HideCards || p.Folded || !slices.Contains(c.Showdown, p.ID) {
			continue
		}
		hole := p.Cards
		cv.PlayerCards[i] = &hole
	}

	for _, w := range c.Winners {
		name := ""
		if p := e.anyPlayer(w.PlayerID); p != nil {
			name = p.Name
		}
		cv.Winners = append(cv.Winners, WinnerView{
			Name:             name,
			Hand:             w.Hand,
			Winnings:         w.Winnings,
			TotalPotWinnings: w.TotalPotWinnings,
		})
	}
	if len(cv.Winners) > 0 {
		cv.WinnerName = &cv.Winners[0].Name
	}

	if c.BestHand != nil && len(c.BestHand.PlayerIDs) > 0 {
		desc := c.BestHand.Strength.String()
		if p := e.anyPlayer(c.BestHand.PlayerIDs[0]); p != nil && len(s.Round.Community) == 5 {
			all := append([]cards.Card{p.Cards[0], p.Cards[1]}, s.Round.Community...)
			if words, err := hands.Describe(all); err == nil {
				desc = words
			}
		}
		cv.WinningHand = &desc
	}
	return cv
}

// anyPlayer finds a seated or dormant player by id.
func (e *Engine) anyPlayer(id string) *Player {
	if p, _ := e.state.player(id); p != nil {
		return p
	}
	for _, p := range e.state.Dormant {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerView projects the room from one player's seat.
func (e *Engine) PlayerView(id string) (PlayerView, error) {
	s := e.state
	p, _ := s.player(id)
	if p == nil {
		return PlayerView{}, ErrPlayerNotFound
	}
	b := s.Round.Betting
	v := PlayerView{
		State:             s.Status.Phase(),
		Balance:           p.Balance,
		Cards:             p.Cards,
		YourTurn:          s.Status == StatusPlaying && s.Round.PlayersTurn == id,
		CallAmount:        b.CallAmount(),
		MinRaiseTo:        b.MinRaiseTo(e.cfg.BigBlind),
		PlayersCount:      len(s.Players),
		LastUpdate:        e.updated.Value(),
		CurrentRoundStake: b.PlayerStake(id),
	}
	if v.YourTurn {
		v.TurnExpiresDt = millis(p.TurnDeadline)
	}
	return v, nil
}

// Peek summarises the room for someone deciding whether to join, and
// whether apid could resume a dormant seat.
func (e *Engine) Peek(apid string) PeekView {
	s := e.state
	v := PeekView{State: s.Status.Phase(), PlayersCount: len(s.Players)}
	if apid == "" {
		return v
	}
	for _, p := range s.Players {
		if p.Apid == apid {
			v.CanResume = true
			v.ResumePlayerName = &p.Name
			return v
		}
	}
	if d, ok := s.Dormant[apid]; ok {
		v.CanResume = true
		v.ResumePlayerName = &d.Name
	}
	return v
}
