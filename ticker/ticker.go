// Package ticker keeps the short-lived, time-staggered feed of room events
// that clients show as a scrolling message line.
package ticker

import (
	"time"

	"github.com/lazharichir/holdem/events"
)

// Item is one scheduled ticker entry.
type Item struct {
	Seq   int          `json:"seq"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
	Text  string       `json:"text"`
	Event events.Event `json:"-"`
}

// Ticker is an append-only log of items. Each item starts no earlier than
// MinGap after the previous one so that bursts are shown one at a time.
type Ticker struct {
	items     []Item
	nextSeq   int
	lastStart time.Time
	minGap    time.Duration
	timeout   time.Duration
	disabled  bool
}

func New(minGap, itemTimeout time.Duration, disabled bool) *Ticker {
	return &Ticker{minGap: minGap, timeout: itemTimeout, disabled: disabled}
}

// Emit schedules event and returns the item, or false when disabled.
func (t *Ticker) Emit(now time.Time, event events.Event) (Item, bool) {
	if t.disabled {
		return Item{}, false
	}

	start := now
	if !t.lastStart.IsZero() {
		if earliest := t.lastStart.Add(t.minGap); earliest.After(start) {
			start = earliest
		}
	}

	item := Item{
		Seq:   t.nextSeq,
		Start: start,
		End:   start.Add(t.timeout),
		Text:  events.Text(event),
		Event: event,
	}
	t.nextSeq++
	t.lastStart = start
	t.items = append(t.items, item)
	return item, true
}

// ActiveItems returns items with Start <= now < End in sequence order.
func (t *Ticker) ActiveItems(now time.Time) []Item {
	var out []Item
	for _, item := range t.items {
		if !item.Start.After(now) && now.Before(item.End) {
			out = append(out, item)
		}
	}
	return out
}

// ClearExpired drops items with End <= now and reports how many went.
func (t *Ticker) ClearExpired(now time.Time) int {
	kept := t.items[:0]
	for _, item := range t.items {
		if now.Before(item.End) {
			kept = append(kept, item)
		}
	}
	dropped := len(t.items) - len(kept)
	t.items = kept
	return dropped
}

// Items returns a copy of every retained item.
func (t *Ticker) Items() []Item {
	return append([]Item(nil), t.items...)
}

func (t *Ticker) Disabled() bool {
	return t.disabled
}

func (t *Ticker) SetDisabled(disabled bool) {
	t.disabled = disabled
}

// Reset forgets every item but keeps the configuration.
func (t *Ticker) Reset() {
	t.items = nil
	t.lastStart = time.Time{}
}
