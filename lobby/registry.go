// Package lobby keeps the set of live rooms and which room every player
// sits in.
package lobby

import (
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/room"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrBadRoomCode    = errors.New("room code must be four uppercase letters")
	ErrTooManyRooms   = errors.New("too many rooms")
)

const codeLength = 4

// Code identifies a room: four uppercase ASCII letters.
type Code string

// ParseCode validates a room code.
func ParseCode(s string) (Code, error) {
	if len(s) != codeLength {
		return "", ErrBadRoomCode
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", ErrBadRoomCode
		}
	}
	return Code(s), nil
}

func randomCode() Code {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = byte('A' + rand.IntN(26))
	}
	return Code(b)
}

// Factory builds the room for a fresh code.
type Factory func(code string) *room.Room

// Registry is safe for concurrent use. It never holds a room's lock while
// a room holds its own.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[Code]*room.Room
	order    []Code
	players  map[string]Code
	factory  Factory
	maxRooms int
	newCode  func() Code
}

func NewRegistry(maxRooms int, factory Factory) *Registry {
	return &Registry{
		rooms:    map[Code]*room.Room{},
		players:  map[string]Code{},
		factory:  factory,
		maxRooms: maxRooms,
		newCode:  randomCode,
	}
}

// Create opens an empty room under an unused code.
func (r *Registry) Create() (*room.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxRooms > 0 && len(r.rooms) >= r.maxRooms {
		return nil, ErrTooManyRooms
	}
	code := r.newCode()
	for r.rooms[code] != nil {
		code = r.newCode()
	}
	rm := r.factory(string(code))
	r.rooms[code] = rm
	r.order = append(r.order, code)
	return rm, nil
}

// Join seats a player in the room with code and remembers where they sit.
func (r *Registry) Join(code Code, name, apid string) (string, error) {
	rm, err := r.Find(code)
	if err != nil {
		return "", err
	}
	id, err := rm.Join(name, apid)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[code] != rm {
		// removed while we were joining
		return "", ErrRoomNotFound
	}
	r.players[id] = code
	return id, nil
}

// Find returns the room with code.
func (r *Registry) Find(code Code) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rm, nil
}

// FindByPlayer returns the room a player joined.
func (r *Registry) FindByPlayer(id string) (*room.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	rm, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rm, nil
}

// Available returns the oldest room still waiting for players.
func (r *Registry) Available() (*room.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, code := range r.order {
		rm := r.rooms[code]
		if !rm.Disposed() && rm.Status() == game.StatusJoining {
			return rm, true
		}
	}
	return nil, false
}

// Rooms returns every live room in creation order.
func (r *Registry) Rooms() []*room.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*room.Room, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.rooms[code])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Players counts the players mapped to a live room.
func (r *Registry) Players() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Remove disposes the room and forgets its players.
func (r *Registry) Remove(code Code) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[code]; !ok {
		return ErrRoomNotFound
	}
	r.drop(map[Code]bool{code: true})
	return nil
}

// Cleanup removes rooms that went idle or were disposed.
func (r *Registry) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dead := map[Code]bool{}
	for code, rm := range r.rooms {
		if rm.Disposed() || rm.Status() == game.StatusIdle {
			dead[code] = true
		}
	}
	if len(dead) > 0 {
		r.drop(dead)
	}
	return len(dead)
}

func (r *Registry) drop(dead map[Code]bool) {
	for code := range dead {
		r.rooms[code].Dispose()
		delete(r.rooms, code)
	}
	kept := r.order[:0]
	for _, code := range r.order {
		if !dead[code] {
			kept = append(kept, code)
		}
	}
	r.order = kept
	for id, code := range r.players {
		if dead[code] {
			delete(r.players, id)
		}
	}
}
