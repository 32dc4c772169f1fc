// Package room serializes access to one game engine and fans its events
// out to listeners once the room lock is released.
package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
)

var ErrDisposed = errors.New("room is disposed")

// Room is a single table. Commands take the write lock, views the read lock.
type Room struct {
	Code string

	mu       sync.RWMutex
	engine   *game.Engine
	disposed bool

	handlersMu sync.RWMutex
	handlers   []events.Handler
}

func New(code string, engine *game.Engine) *Room {
	return &Room{Code: code, engine: engine}
}

// AddEventHandler registers h for every event the room emits.
func (r *Room) AddEventHandler(h events.Handler) {
	r.handlersMu.Lock()
	defer r.handlersMu.Unlock()
	r.handlers = append(r.handlers, h)
}

func (r *Room) publish(evs []events.Event) {
	r.handlersMu.RLock()
	handlers := append([]events.Handler(nil), r.handlers...)
	r.handlersMu.RUnlock()

	for _, ev := range evs {
		for _, h := range handlers {
			h(r.Code, ev)
		}
	}
}

// do runs fn under the write lock and publishes what it emitted.
func (r *Room) do(fn func(e *game.Engine) (game.Result, error)) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return ErrDisposed
	}
	res, err := fn(r.engine)
	r.mu.Unlock()

	if err != nil {
		return err
	}
	r.publish(res.Events)
	return nil
}

func (r *Room) Join(name, apid string) (string, error) {
	var id string
	err := r.do(func(e *game.Engine) (game.Result, error) {
		var (
			res game.Result
			err error
		)
		id, res, err = e.Join(name, apid)
		return res, err
	})
	return id, err
}

func (r *Room) Start() error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.Start() })
}

func (r *Room) Play(id string, action game.PlayAction, stake uint64) error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.Play(id, action, stake) })
}

func (r *Room) Leave(id string) error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.Leave(id) })
}

func (r *Room) Transfer(fromID, fundsToken string, amount uint64) error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.Transfer(fromID, fundsToken, amount) })
}

func (r *Room) SendEmoji(id, message string) error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.SendEmoji(id, message) })
}

func (r *Room) SetPhoto(id, token string) error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.SetPhoto(id, token) })
}

func (r *Room) Reset() error {
	return r.do(func(e *game.Engine) (game.Result, error) { return e.Reset() })
}

func (r *Room) ResetTurnDeadline(id string) error {
	return r.do(func(e *game.Engine) (game.Result, error) {
		return game.Result{}, e.ResetTurnDeadline(id)
	})
}

// Tick drives the engine's clock-based transitions.
func (r *Room) Tick(now time.Time) (game.TickOutcome, error) {
	var out game.TickOutcome
	err := r.do(func(e *game.Engine) (game.Result, error) {
		var err error
		out, err = e.Tick(now)
		return out.Result, err
	})
	return out, err
}

func (r *Room) RoomView(now time.Time) game.RoomView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v := r.engine.RoomView(now)
	v.RoomCode = r.Code
	return v
}

func (r *Room) PlayerView(id string) (game.PlayerView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.PlayerView(id)
}

func (r *Room) Peek(apid string) game.PeekView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.Peek(apid)
}

func (r *Room) Accounts(id string) ([]game.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.Accounts(id)
}

func (r *Room) HasPlayer(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.HasPlayer(id)
}

func (r *Room) Status() game.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.Status()
}

// PlayerIDs lists the seated players.
func (r *Room) PlayerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := r.engine.Snapshot()
	ids := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) Dump() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine.Dump()
}

// LastUpdate is the unix millisecond time of the last change.
func (r *Room) LastUpdate() int64 {
	return r.engine.Updates().Value()
}

// WaitForUpdate blocks until the room changes after since or ctx ends. It
// reports whether a change was seen.
func (r *Room) WaitForUpdate(ctx context.Context, since int64) bool {
	_, changed := r.engine.Updates().Wait(ctx, since)
	return changed
}

// Dispose marks the room as closed to further commands.
func (r *Room) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disposed = true
}

func (r *Room) Disposed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disposed
}
