package room

import (
	"sync"
	"testing"
	"time"

	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	mu       sync.Mutex
	rooms    []*Room
	cleanups int
}

func (s *fixedSource) Rooms() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Room(nil), s.rooms...)
}

func (s *fixedSource) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups++
	return 0
}

func TestReaperTimesOutActors(t *testing.T) {
	rm, clk := newTestRoom(t)
	a, err := rm.Join("Ann", "")
	require.NoError(t, err)
	_, err = rm.Join("Bob", "")
	require.NoError(t, err)
	require.NoError(t, rm.Start())

	src := &fixedSource{rooms: []*Room{rm}}
	r := NewReaper(src, clk, time.Second, nil)

	r.TickAll(clk.Now())
	pv, err := rm.PlayerView(a)
	require.NoError(t, err)
	assert.True(t, pv.YourTurn)

	r.TickAll(clk.Advance(61 * time.Second))
	assert.False(t, rm.HasPlayer(a))
	assert.Equal(t, game.StatusJoining, rm.Status())
	assert.Equal(t, 2, src.cleanups)
}

func TestReaperReportsIdleRooms(t *testing.T) {
	rm, clk := newTestRoom(t)
	_, err := rm.Join("Ann", "")
	require.NoError(t, err)

	var idle []string
	r := NewReaper(&fixedSource{rooms: []*Room{rm}}, clk, time.Second, func(rm *Room) {
		idle = append(idle, rm.Code)
	})

	r.TickAll(clk.Advance(301 * time.Second))
	assert.Equal(t, []string{"ABCD"}, idle)
	assert.Equal(t, game.StatusIdle, rm.Status())
}

func TestReaperStartStop(t *testing.T) {
	rm, _ := newTestRoom(t)
	src := &fixedSource{rooms: []*Room{rm}}
	r := NewReaper(src, clock.System{}, 5*time.Millisecond, nil)
	r.Start()

	assert.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.cleanups > 0
	}, time.Second, 5*time.Millisecond)
	r.Stop()
}
