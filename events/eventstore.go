package events

import (
	"errors"
	"sync"
)

// EventStore is the interface for storing and retrieving room events.
type EventStore interface {
	Append(roomCode string, event Event) error
	LoadEvents(roomCode string) ([]Event, error)
	Drop(roomCode string)
}

// InMemoryEventStore is an in-memory implementation of the EventStore interface.
type InMemoryEventStore struct {
	events   map[string][]Event
	capacity int
	mutex    sync.RWMutex
}

// NewInMemoryEventStore creates a store that keeps at most capacity events
// per room, dropping the oldest. A capacity of 0 keeps everything.
func NewInMemoryEventStore(capacity int) *InMemoryEventStore {
	return &InMemoryEventStore{
		events:   make(map[string][]Event),
		capacity: capacity,
	}
}

// Append adds a new event to the store.
func (s *InMemoryEventStore) Append(roomCode string, event Event) error {
	if roomCode == "" {
		return errors.New("event has no room code")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	log := append(s.events[roomCode], event)
	if s.capacity > 0 && len(log) > s.capacity {
		log = append([]Event(nil), log[len(log)-s.capacity:]...)
	}
	s.events[roomCode] = log
	return nil
}

// Handle lets the store subscribe to emitted events directly.
func (s *InMemoryEventStore) Handle(roomCode string, event Event) {
	_ = s.Append(roomCode, event)
}

// LoadEvents retrieves all events for the given room.
func (s *InMemoryEventStore) LoadEvents(roomCode string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if events, exists := s.events[roomCode]; exists {
		result := make([]Event, len(events))
		copy(result, events)
		return result, nil
	}

	return []Event{}, nil
}

// Drop forgets a room's history.
func (s *InMemoryEventStore) Drop(roomCode string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.events, roomCode)
}
