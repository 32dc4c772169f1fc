package events

// Event is the interface that all room events implement.
type Event interface {
	Name() string // unique SCREAMING_SNAKE name of the event type
}

// Handler receives events as they are emitted.
type Handler func(roomCode string, event Event)
