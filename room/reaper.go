package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lazharichir/holdem/clock"
	"github.com/rs/zerolog/log"
)

// Source is where the reaper finds rooms to tick.
type Source interface {
	Rooms() []*Room
	// Cleanup drops rooms that are idle or disposed and reports how many.
	Cleanup() int
}

// Reaper ticks every room on a fixed interval: turn timeouts, idle resets
// and expiry of ticker items all happen here.
type Reaper struct {
	source   Source
	clock    clock.Clock
	interval time.Duration
	onIdle   func(*Room)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReaper creates a reaper. onIdle, if set, is called for every room
// that was reset for inactivity.
func NewReaper(source Source, clk clock.Clock, interval time.Duration, onIdle func(*Room)) *Reaper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reaper{
		source:   source,
		clock:    clk,
		interval: interval,
		onIdle:   onIdle,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the loop in its own goroutine.
func (r *Reaper) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runLoop()
	}()
}

// Stop ends the loop and waits for it.
func (r *Reaper) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Reaper) runLoop() {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-t.C:
			r.TickAll(r.clock.Now())
		}
	}
}

// TickAll ticks every room once and then cleans up the registry.
func (r *Reaper) TickAll(now time.Time) {
	for _, rm := range r.source.Rooms() {
		out, err := rm.Tick(now)
		if err != nil {
			if !errors.Is(err, ErrDisposed) {
				log.Error().Err(err).Str("room", rm.Code).Msg("tick failed")
			}
			continue
		}
		if out.TimedOut != "" {
			log.Info().Str("room", rm.Code).Str("player", out.TimedOut).Msg("player ran out of time")
		}
		if out.IdleReset {
			log.Info().Str("room", rm.Code).Msg("room reset after inactivity")
			if r.onIdle != nil {
				r.onIdle(rm)
			}
		}
	}

	if n := r.source.Cleanup(); n > 0 {
		log.Info().Int("rooms", n).Msg("cleaned up rooms")
	}
}
