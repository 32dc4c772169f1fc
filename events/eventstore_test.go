package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventStore(t *testing.T) {
	t.Run("Append and load events", func(t *testing.T) {
		store := NewInMemoryEventStore(0)

		require.NoError(t, store.Append("ABCD", PlayerJoined{PlayerID: "p1", PlayerName: "Ann"}))
		require.NoError(t, store.Append("ABCD", GameStarted{PlayerIDs: []string{"p1", "p2"}}))
		store.Handle("ABCD", PlayerFolded{PlayerID: "p1", PlayerName: "Ann"})
		require.NoError(t, store.Append("WXYZ", RoomReset{}))

		events, err := store.LoadEvents("ABCD")
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "PLAYER_JOINED", events[0].Name())
		assert.Equal(t, "GAME_STARTED", events[1].Name())
		assert.Equal(t, "PLAYER_FOLDED", events[2].Name())
	})

	t.Run("Missing room code is rejected", func(t *testing.T) {
		store := NewInMemoryEventStore(0)
		assert.Error(t, store.Append("", RoomReset{}))
	})

	t.Run("Load events for unknown room", func(t *testing.T) {
		store := NewInMemoryEventStore(0)
		events, err := store.LoadEvents("NOPE")
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Capacity keeps the newest events", func(t *testing.T) {
		store := NewInMemoryEventStore(2)
		for _, amount := range []uint64{1, 2, 3} {
			require.NoError(t, store.Append("ABCD", PaidPot{Amount: amount}))
		}
		events, _ := store.LoadEvents("ABCD")
		require.Len(t, events, 2)
		assert.Equal(t, uint64(2), events[0].(PaidPot).Amount)
		assert.Equal(t, uint64(3), events[1].(PaidPot).Amount)

		store.Drop("ABCD")
		events, _ = store.LoadEvents("ABCD")
		assert.Empty(t, events)
	})
}

func TestText(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{PlayerBet{PlayerName: "Ann", Action: "check"}, "Ann checked"},
		{PlayerBet{PlayerName: "Ann", Action: "call", Amount: 20}, "Ann called 20"},
		{PlayerBet{PlayerName: "Ann", Action: "raise", Amount: 40, RaiseTo: 60}, "Ann raised to 60"},
		{PlayerBet{PlayerName: "Ann", Action: "raise", Amount: 40, AllIn: true}, "Ann is all in with 40"},
		{Winner{PlayerName: "Bob"}, "Bob takes the pot"},
		{PlayerTurnTimeout{PlayerName: "Cy"}, "Cy ran out of time"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.event))
		})
	}
}
