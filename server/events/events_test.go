package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	data, err := Envelope("PLAYER_LEFT", events.PlayerLeft{PlayerID: "p1", PlayerName: "Alice"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"PLAYER_LEFT","payload":{"playerId":"p1","playerName":"Alice"}}`, string(data))
}

func TestDispatcher(t *testing.T) {
	m := connection.NewManager()
	go m.Start()
	defer m.Stop()

	watcher := &connection.Client{ID: "watcher", Send: make(chan []byte, 4)}
	actor := &connection.Client{ID: "actor", Send: make(chan []byte, 4)}
	m.Register <- watcher
	m.Register <- actor
	require.Eventually(t, func() bool { return m.Count() == 2 }, time.Second, time.Millisecond)
	m.Subscribe("watcher", "ABCD", "")
	m.Subscribe("actor", "ABCD", "p1")

	d := NewDispatcher(m, nil)
	d.HandleEvent("ABCD", events.PlayerFolded{PlayerID: "p2", PlayerName: "Bob"})
	d.HandleEvent("WXYZ", events.PlayerFolded{PlayerID: "p3", PlayerName: "Carol"})
	d.HandleEvent("ABCD", events.PlayerTurnTimeout{PlayerID: "p1", PlayerName: "Alice"})

	assert.Equal(t, []string{"PLAYER_FOLDED", "PLAYER_TURN_TIMEOUT"}, names(t, watcher))
	assert.Equal(t, []string{"PLAYER_FOLDED", "PLAYER_TURN_TIMEOUT", "YOUR_TURN_EXPIRED"}, names(t, actor))
}

func TestDispatcherPushesRoomView(t *testing.T) {
	m := connection.NewManager()
	go m.Start()
	defer m.Stop()

	watcher := &connection.Client{ID: "watcher", Send: make(chan []byte, 8)}
	require.True(t, m.Add(watcher))
	require.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, time.Millisecond)
	m.Subscribe("watcher", "ABCD", "")

	var looked []string
	d := NewDispatcher(m, func(code string) (game.RoomView, bool) {
		looked = append(looked, code)
		if code != "ABCD" {
			return game.RoomView{}, false
		}
		return game.RoomView{RoomCode: code, Pot: 30}, true
	})
	d.HandleEvent("ABCD", events.PlayerJoined{PlayerID: "p2", PlayerName: "Bob"})
	d.HandleEvent("WXYZ", events.PlayerJoined{PlayerID: "p3", PlayerName: "Carol"})

	assert.Equal(t, []string{"ABCD"}, looked, "rooms without subscribers are not rendered")
	assert.Equal(t, []string{"PLAYER_JOINED", "ROOM_VIEW"}, names(t, watcher))
}

func names(t *testing.T, c *connection.Client) []string {
	t.Helper()
	var out []string
	for {
		select {
		case data := <-c.Send:
			var env EventEnvelope
			require.NoError(t, json.Unmarshal(data, &env))
			out = append(out, env.Name)
		default:
			return out
		}
	}
}
