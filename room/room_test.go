package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/events"
	"github.com/lazharichir/holdem/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRoom(t *testing.T) (*Room, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(epoch)
	cfg := game.DefaultConfig()
	cfg.TickerDisabled = true
	return New("ABCD", game.New(cfg, clk, cards.OrderedShuffler{})), clk
}

type recorder struct {
	mu     sync.Mutex
	codes  []string
	events []string
}

func (r *recorder) handle(code string, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
	r.events = append(r.events, ev.Name())
}

func TestRoomPublishesEvents(t *testing.T) {
	rm, _ := newTestRoom(t)
	rec := &recorder{}
	rm.AddEventHandler(rec.handle)

	a, err := rm.Join("Ann", "")
	require.NoError(t, err)
	_, err = rm.Join("Bob", "")
	require.NoError(t, err)
	require.NoError(t, rm.Start())

	assert.Equal(t, []string{"PLAYER_JOINED", "PLAYER_JOINED", "GAME_STARTED", "BLIND_POSTED", "BLIND_POSTED"}, rec.events)
	assert.Equal(t, []string{"ABCD"}, unique(rec.codes))

	before := len(rec.events)
	err = rm.Play(a, game.PlayCheck, 0)
	assert.ErrorIs(t, err, game.ErrCannotCheckAfterRaise)
	assert.Len(t, rec.events, before, "failed commands publish nothing")

	require.NoError(t, rm.Play(a, game.PlayFold, 0))
	assert.Equal(t, game.StatusComplete, rm.Status())
}

func TestRoomViews(t *testing.T) {
	rm, clk := newTestRoom(t)
	id, err := rm.Join("Ann", "device")
	require.NoError(t, err)

	v := rm.RoomView(clk.Now())
	assert.Equal(t, "ABCD", v.RoomCode)
	require.Len(t, v.Players, 1)

	pv, err := rm.PlayerView(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), pv.Balance)

	assert.True(t, rm.Peek("device").CanResume)
	assert.True(t, rm.HasPlayer(id))
	assert.Equal(t, []string{id}, rm.PlayerIDs())
	assert.Contains(t, rm.Dump(), "Ann")
}

func TestDisposedRoomRejectsCommands(t *testing.T) {
	rm, _ := newTestRoom(t)
	rm.Dispose()
	assert.True(t, rm.Disposed())
	_, err := rm.Join("Ann", "")
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestWaitForUpdate(t *testing.T) {
	rm, _ := newTestRoom(t)
	since := rm.LastUpdate()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, rm.WaitForUpdate(ctx, since))

	done := make(chan bool, 1)
	go func() {
		done <- rm.WaitForUpdate(context.Background(), since)
	}()
	_, err := rm.Join("Ann", "")
	require.NoError(t, err)

	select {
	case changed := <-done:
		assert.True(t, changed)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

func unique(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
