package game

import (
	"testing"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/clock"
	"github.com/lazharichir/holdem/events"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// stackedShuffler deals tops[i] first on the i-th shuffle, leaving the
// rest of the deck in canonical order. A nil entry keeps the whole deck
// ordered.
type stackedShuffler struct {
	tops  [][]cards.Card
	calls int
}

func stacked(tops ...string) *stackedShuffler {
	s := &stackedShuffler{}
	for _, top := range tops {
		if top == "" {
			s.tops = append(s.tops, nil)
			continue
		}
		s.tops = append(s.tops, cards.MustParseCards(top))
	}
	return s
}

func (s *stackedShuffler) Shuffle(cs []cards.Card) {
	defer func() { s.calls++ }()
	if s.calls >= len(s.tops) || s.tops[s.calls] == nil {
		return
	}
	top := s.tops[s.calls]
	skip := map[cards.Card]bool{}
	for _, c := range top {
		skip[c] = true
	}
	out := make([]cards.Card, 0, len(cs))
	for _, c := range cs {
		if !skip[c] {
			out = append(out, c)
		}
	}
	for i := len(top) - 1; i >= 0; i-- {
		out = append(out, top[i])
	}
	copy(cs, out)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TickerDisabled = true
	return cfg
}

func newTestEngine(t *testing.T, shuffler cards.Shuffler) (*Engine, *clock.Manual) {
	t.Helper()
	if shuffler == nil {
		shuffler = cards.OrderedShuffler{}
	}
	clk := clock.NewManual(epoch)
	return New(testConfig(), clk, shuffler), clk
}

func joinAll(t *testing.T, e *Engine, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, _, err := e.Join(name, "apid-"+name)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func mustStart(t *testing.T, e *Engine) Result {
	t.Helper()
	res, err := e.Start()
	require.NoError(t, err)
	return res
}

func mustBet(t *testing.T, e *Engine, id string, action BetAction) Result {
	t.Helper()
	res, err := e.Bet(id, action)
	require.NoError(t, err)
	return res
}

func mustFold(t *testing.T, e *Engine, id string) Result {
	t.Helper()
	res, err := e.Fold(id)
	require.NoError(t, err)
	return res
}

func balance(t *testing.T, e *Engine, id string) uint64 {
	t.Helper()
	p, _ := e.state.player(id)
	require.NotNil(t, p, "player %s", id)
	return p.Balance
}

func totalChips(e *Engine) uint64 {
	total := e.state.Round.Pot
	for _, p := range e.state.Players {
		total += p.Balance
	}
	for _, p := range e.state.Dormant {
		total += p.Balance
	}
	return total
}

func eventNames(evs []events.Event) []string {
	names := make([]string, 0, len(evs))
	for _, ev := range evs {
		names = append(names, ev.Name())
	}
	return names
}

func findEvent[T events.Event](evs []events.Event) (T, bool) {
	for _, ev := range evs {
		if v, ok := ev.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
