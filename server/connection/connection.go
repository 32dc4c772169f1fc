package connection

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client is one websocket connection, optionally subscribed to a room and
// bound to a player seated there.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	RoomCode string
	PlayerID string
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client // connection id -> client
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start processes registrations until Stop is called.
func (m *Manager) Start() {
	for {
		select {
		case <-m.done:
			return
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

func (m *Manager) Stop() {
	close(m.done)
}

// Add registers a client. It reports false once the manager has stopped.
func (m *Manager) Add(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Remove unregisters a client, or returns at once if the manager has
// stopped.
func (m *Manager) Remove(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

// Subscribe points a client at a room, and at a player if playerID is set.
func (m *Manager) Subscribe(clientID, roomCode, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	client.RoomCode = roomCode
	client.PlayerID = playerID
	return true
}

// SendToPlayer sends a message to every connection of a player.
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := false
	for _, client := range m.clients {
		if client.PlayerID == playerID {
			m.send(client, message)
			sent = true
		}
	}
	return sent
}

// SendToRoom sends a message to every client subscribed to a room.
func (m *Manager) SendToRoom(roomCode string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	n := 0
	for _, client := range m.clients {
		if client.RoomCode == roomCode {
			m.send(client, message)
			n++
		}
	}
	return n
}

// SendToClient sends a message to one connection.
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if ok {
		m.send(client, message)
	}
	return ok
}

// send drops the message when the client's buffer is full; a client that
// far behind refetches the views anyway.
func (m *Manager) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Warn().Str("client", client.ID).Msg("dropping message for slow client")
	}
}

// Count reports the number of open connections.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
