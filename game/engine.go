package game

import (
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/ticker"
	"github.com/sanity-io/litter"
)

// Result is what a successful command produced.
type Result struct {
	Events     []events.Event
	LastUpdate int64
}

// Engine runs one room. It is not safe for concurrent use; callers
// serialize commands.
type Engine struct {
	cfg      Config
	clock    clock.Clock
	shuffler cards.Shuffler
	state    *RoomState
	ticker   *ticker.Ticker
	updated  *clock.Signal

	now     time.Time
	pending []events.Event
}

// New creates an engine for an empty room.
func New(cfg Config, clk clock.Clock, shuffler cards.Shuffler) *Engine {
	e := &Engine{
		cfg:      cfg,
		clock:    clk,
		shuffler: shuffler,
		ticker:   ticker.New(cfg.TickerMinGap, cfg.TickerItemTimeout, cfg.TickerDisabled),
		updated:  clock.NewSignal(),
	}
	e.state = newRoomState(cards.NewShuffledDeck(shuffler), StatusJoining)
	e.updated.Set(clk.Now())
	return e
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Status() Status { return e.state.Status }

// LastUpdate returns the unix millisecond time of the last state change.
func (e *Engine) LastUpdate() int64 { return e.updated.Value() }

// Updates exposes the last-update signal for long-polling readers.
func (e *Engine) Updates() *clock.Signal { return e.updated }

// Snapshot returns a deep copy of the room state.
func (e *Engine) Snapshot() *RoomState { return e.state.clone() }

// Dump renders the room state for debugging.
func (e *Engine) Dump() string { return litter.Sdump(e.state) }

// SetTickerDisabled toggles the room's ticker.
func (e *Engine) SetTickerDisabled(disabled bool) { e.ticker.SetDisabled(disabled) }

// mutate runs fn as one atomic command at the current clock time.
func (e *Engine) mutate(fn func() error) (Result, error) {
	return e.mutateAt(e.clock.Now(), fn)
}

func (e *Engine) mutateAt(now time.Time, fn func() error) (Result, error) {
	e.now = now
	e.pending = nil
	snapshot := e.state.clone()

	if err := fn(); err != nil {
		e.state = snapshot
		e.pending = nil
		return Result{}, err
	}
	return e.commit(), nil
}

func (e *Engine) commit() Result {
	evs := e.pending
	e.pending = nil
	for _, ev := range evs {
		e.ticker.Emit(e.now, ev)
	}
	return Result{Events: evs, LastUpdate: e.updated.Set(e.now)}
}

func (e *Engine) emit(ev events.Event) {
	e.pending = append(e.pending, ev)
}

func (e *Engine) ring() TurnRing {
	return newTurnRing(e.state.Players)
}

// Join seats a new player, or promotes a dormant one whose apid matches.
// Joining again with the apid of a seated player returns that player.
func (e *Engine) Join(name, apid string) (string, Result, error) {
	var id string
	res, err := e.mutate(func() error {
		var err error
		id, err = e.join(name, apid)
		return err
	})
	return id, res, err
}

func (e *Engine) join(name, apid string) (string, error) {
	s := e.state
	if apid != "" {
		for _, p := range s.Players {
			if p.Apid == apid {
				p.Leaving = false
				return p.ID, nil
			}
		}
		if d, ok := s.Dormant[apid]; ok {
			return d.ID, e.promote(d)
		}
	}

	if s.Status == StatusPlaying {
		return "", ErrGameAlreadyStarted
	}
	if len(s.Players) >= e.cfg.MaxPlayers {
		return "", ErrRoomFull
	}
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}

	p := newPlayer(name, apid, e.cfg.StartingBalance)
	if err := e.dealHole(p); err != nil {
		return "", err
	}
	if s.Status == StatusIdle {
		s.Status = StatusJoining
	}
	s.Players = append(s.Players, p)
	e.emit(events.PlayerJoined{PlayerID: p.ID, PlayerName: p.Name})
	return p.ID, nil
}

func (e *Engine) promote(p *Player) error {
	s := e.state
	if len(s.Players) >= e.cfg.MaxPlayers {
		return ErrRoomFull
	}
	delete(s.Dormant, dormantKey(p))

	p.Leaving = false
	p.Stake = 0
	p.TurnDeadline = nil
	if s.Status == StatusJoining || s.Status == StatusIdle {
		if err := e.dealHole(p); err != nil {
			return err
		}
		p.Folded = false
		p.HideCards = false
		s.Status = StatusJoining
	} else {
		// sits out until the next hand
		p.Folded = true
		p.HideCards = true
	}

	s.Players = append(s.Players, p)
	e.emit(events.PlayerResumed{PlayerID: p.ID, PlayerName: p.Name})
	return nil
}

func (e *Engine) dealHole(p *Player) error {
	cs, err := e.state.Round.Deck.PopN(2)
	if err != nil {
		return ErrDeckEmpty
	}
	p.Cards = [2]cards.Card{cs[0], cs[1]}
	return nil
}

// Start begins a hand.
func (e *Engine) Start() (Result, error) {
	return e.mutate(e.start)
}

func (e *Engine) start() error {
	s := e.state
	if s.Status == StatusPlaying {
		return ErrGameAlreadyStarted
	}
	funded := 0
	for _, p := range s.Players {
		if p.Balance > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrNotEnoughPlayers
	}

	if s.Status == StatusComplete {
		s.Round.Deck = cards.NewShuffledDeck(e.shuffler)
		for _, p := range s.Players {
			if err := e.dealHole(p); err != nil {
				return err
			}
		}
	}

	r := &s.Round
	r.Community = nil
	r.Pot = 0
	r.Completed = nil
	r.PlayersTurn = ""
	r.BigBlindID = ""
	r.Betting.reset()
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		p.Stake = 0
		p.Folded = p.Balance == 0 // busted players sit out
		p.TurnDeadline = nil
		p.HideCards = false
		ids = append(ids, p.ID)
	}

	s.Status = StatusPlaying
	e.emit(events.GameStarted{PlayerIDs: ids})
	return e.startStreet()
}

// Bet applies a check, call or raise by the current actor.
func (e *Engine) Bet(id string, action BetAction) (Result, error) {
	return e.mutate(func() error {
		return e.bet(id, action)
	})
}

func (e *Engine) bet(id string, action BetAction) error {
	s := e.state
	if s.Status != StatusPlaying {
		return ErrGameNotStarted
	}
	p, _ := s.player(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	if s.Round.PlayersTurn != id {
		return ErrNotYourTurn
	}
	if p.TurnDeadline != nil && p.TurnDeadline.Before(e.now) {
		return ErrTurnExpired
	}

	b := &s.Round.Betting
	stake := b.PlayerStake(id)
	call := b.CallAmount()
	var added, to uint64

	switch a := action.(type) {
	case Check:
		if len(b.Raises) > 0 && stake < call {
			return ErrCannotCheckAfterRaise
		}
		to = stake
		b.markActed(id)
	case Call:
		if len(b.Raises) == 0 {
			return ErrNothingToCall
		}
		if stake >= call {
			return ErrAlreadyCalled
		}
		added = min(call-stake, p.Balance)
		to = stake + added
		b.call(id, added)
		b.markActed(id)
	case RaiseTo:
		minTo := b.MinRaiseTo(e.cfg.BigBlind)
		if a.Amount <= stake {
			return raiseTooSmall(minTo)
		}
		added = a.Amount - stake
		allIn := added == p.Balance && a.Amount > call
		if a.Amount < minTo && !allIn {
			return raiseTooSmall(minTo)
		}
		if added > p.Balance {
			return ErrInsufficientFunds
		}
		to = a.Amount
		b.raise(id, a.Amount)
		b.reopen(id)
	default:
		return badRequest("unknown bet action")
	}

	p.Balance -= added
	p.Stake += added
	s.Round.Pot += added
	e.emit(events.PlayerBet{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     action.ActionName(),
		Amount:     added,
		RaiseTo:    to,
		AllIn:      added > 0 && p.Balance == 0,
	})

	e.clearTurn()
	return e.advance(id)
}

// Fold gives up the current actor's hand.
func (e *Engine) Fold(id string) (Result, error) {
	return e.mutate(func() error {
		s := e.state
		if s.Status != StatusPlaying {
			return ErrGameNotStarted
		}
		p, _ := s.player(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		if s.Round.PlayersTurn != id {
			return ErrNotYourTurn
		}
		return e.fold(p)
	})
}

func (e *Engine) fold(p *Player) error {
	p.Folded = true
	e.emit(events.PlayerFolded{PlayerID: p.ID, PlayerName: p.Name})

	if e.state.Round.PlayersTurn == p.ID {
		e.clearTurn()
	}
	if live := e.state.nonFolded(); len(live) == 1 {
		return e.lastStanding(live[0])
	}
	if e.state.Round.PlayersTurn != "" {
		return nil
	}
	return e.advance(p.ID)
}

// Leave takes a player out of the room. A player in a hand folds and is
// moved to the dormant pool when the hand ends.
func (e *Engine) Leave(id string) (Result, error) {
	return e.mutate(func() error {
		s := e.state
		p, _ := s.player(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.Leaving = true
		if s.Status == StatusPlaying {
			if !p.Folded {
				return e.fold(p)
			}
			return nil
		}
		e.dormantizeLeaving()
		return e.pauseIfShortHanded()
	})
}

// Transfer moves chips to the player holding fundsToken.
func (e *Engine) Transfer(fromID, fundsToken string, amount uint64) (Result, error) {
	return e.mutate(func() error {
		if amount == 0 {
			return badRequest("amount must be positive")
		}
		s := e.state
		from, _ := s.player(fromID)
		if from == nil {
			return ErrPlayerNotFound
		}
		var to *Player
		for _, p := range s.Players {
			if p.FundsToken == fundsToken {
				to = p
			}
		}
		if to == nil {
			return ErrUnknownDestination
		}
		if to == from {
			return badRequest("cannot transfer to yourself")
		}
		if from.Balance < amount {
			return ErrInsufficientFunds
		}
		if s.Status == StatusPlaying {
			// balances of players in the hand decide who may act
			if !from.Folded && from.Balance == amount {
				return &Error{Kind: KindInsufficientFunds, Detail: "chips behind are needed while in a hand"}
			}
			if !to.Folded && to.Balance == 0 {
				return badRequest("cannot transfer to an all-in player during a hand")
			}
		}
		from.Balance -= amount
		to.Balance += amount
		e.emit(events.PlayerTransferredBalance{
			FromPlayerID: from.ID,
			FromName:     from.Name,
			ToPlayerID:   to.ID,
			ToName:       to.Name,
			Amount:       amount,
		})
		return nil
	})
}

// SendEmoji shows a reaction next to the player for a while.
func (e *Engine) SendEmoji(id, raw string) (Result, error) {
	return e.mutate(func() error {
		p, _ := e.state.player(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		emoji, err := ParseEmoji(raw)
		if err != nil {
			return err
		}
		p.Emoji = &EmojiMessage{Emoji: emoji, Expires: e.now.Add(e.cfg.EmojiTimeout)}
		e.emit(events.PlayerSentEmoji{PlayerID: p.ID, PlayerName: p.Name, Emoji: emoji.Glyph()})
		return nil
	})
}

// SetPhoto attaches a stored photo token to the player.
func (e *Engine) SetPhoto(id, token string) (Result, error) {
	return e.mutate(func() error {
		p, _ := e.state.player(id)
		if p == nil {
			return ErrPlayerNotFound
		}
		p.Photo = token
		return nil
	})
}

// ResetTurnDeadline is called when the actor shows up: it clears their
// deadline unless it already passed.
func (e *Engine) ResetTurnDeadline(id string) error {
	p, _ := e.state.player(id)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.TurnDeadline == nil {
		return nil
	}
	_, err := e.mutate(func() error {
		p, _ := e.state.player(id)
		if p.TurnDeadline.Before(e.now) {
			return ErrTurnExpired
		}
		p.TurnDeadline = nil
		return nil
	})
	return err
}

// Reset replaces the room with an empty one.
func (e *Engine) Reset() (Result, error) {
	return e.mutate(func() error {
		e.resetRoom(StatusJoining)
		e.emit(events.RoomReset{Reason: "reset"})
		return nil
	})
}

func (e *Engine) resetRoom(status Status) {
	e.state = newRoomState(cards.NewShuffledDeck(e.shuffler), status)
	e.ticker.Reset()
}

// Account is a transfer destination.
type Account struct {
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
}

// Accounts lists everyone id may transfer to.
func (e *Engine) Accounts(id string) ([]Account, error) {
	if p, _ := e.state.player(id); p == nil {
		return nil, ErrPlayerNotFound
	}
	out := []Account{}
	for _, p := range e.state.Players {
		if p.ID != id {
			out = append(out, Account{Name: p.Name, AccountID: p.FundsToken})
		}
	}
	return out, nil
}

// HasPlayer reports whether id is seated in the room.
func (e *Engine) HasPlayer(id string) bool {
	p, _ := e.state.player(id)
	return p != nil
}
