package events

import (
	"encoding/json"

	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/rs/zerolog/log"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope marshals payload under name.
func Envelope(name string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: raw})
}

// ViewFunc returns the current view of a room, or false if it is gone.
type ViewFunc func(roomCode string) (game.RoomView, bool)

// Dispatcher pushes room events, each followed by a fresh ROOM_VIEW, to the
// websocket clients of the room.
type Dispatcher struct {
	connMgr *connection.Manager
	view    ViewFunc
}

// NewDispatcher returns a Dispatcher. A nil view pushes events only.
func NewDispatcher(connMgr *connection.Manager, view ViewFunc) *Dispatcher {
	return &Dispatcher{connMgr: connMgr, view: view}
}

// HandleEvent is an events.Handler.
func (d *Dispatcher) HandleEvent(roomCode string, event events.Event) {
	data, err := Envelope(event.Name(), event)
	if err != nil {
		log.Error().Err(err).Str("event", event.Name()).Msg("failed to marshal event")
		return
	}

	n := d.connMgr.SendToRoom(roomCode, data)
	log.Debug().Str("room", roomCode).Str("event", event.Name()).Int("clients", n).Msg("dispatched event")

	// a timed-out player may be looking at a stale view of their own seat
	if e, ok := event.(events.PlayerTurnTimeout); ok {
		if notice, err := Envelope("YOUR_TURN_EXPIRED", e); err == nil {
			d.connMgr.SendToPlayer(e.PlayerID, notice)
		}
	}

	if d.view == nil || n == 0 {
		return
	}
	v, ok := d.view(roomCode)
	if !ok {
		return
	}
	data, err = Envelope("ROOM_VIEW", v)
	if err != nil {
		log.Error().Err(err).Str("room", roomCode).Msg("failed to marshal room view")
		return
	}
	d.connMgr.SendToRoom(roomCode, data)
}
