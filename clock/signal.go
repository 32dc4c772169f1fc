package clock

import (
	"context"
	"sync"
	"time"
)

// Signal holds a strictly increasing millisecond timestamp and wakes every
// waiter when it moves.
type Signal struct {
	mu      sync.Mutex
	value   int64
	changed chan struct{}
}

func NewSignal() *Signal {
	return &Signal{changed: make(chan struct{})}
}

// Set records t as the latest update. If t is not later than the current
// value the value still advances by one so that waiters observe a change.
func (s *Signal) Set(t time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := t.UnixMilli()
	if next <= s.value {
		next = s.value + 1
	}
	s.value = next
	close(s.changed)
	s.changed = make(chan struct{})
	return next
}

// Value returns the latest update in unix milliseconds.
func (s *Signal) Value() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Wait blocks until the value is greater than since or ctx is done. It
// returns the value seen and whether it advanced past since.
func (s *Signal) Wait(ctx context.Context, since int64) (int64, bool) {
	for {
		s.mu.Lock()
		value, changed := s.value, s.changed
		s.mu.Unlock()

		if value > since {
			return value, true
		}

		select {
		case <-ctx.Done():
			return value, false
		case <-changed:
		}
	}
}
