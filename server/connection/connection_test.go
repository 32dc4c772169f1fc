package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T, clients ...*Client) *Manager {
	t.Helper()
	m := NewManager()
	go m.Start()
	t.Cleanup(m.Stop)
	for _, c := range clients {
		m.Register <- c
	}
	require.Eventually(t, func() bool { return m.Count() == len(clients) }, time.Second, time.Millisecond)
	return m
}

func newClient(id string, buffer int) *Client {
	return &Client{ID: id, Send: make(chan []byte, buffer)}
}

func TestRouting(t *testing.T) {
	a, b, c := newClient("a", 4), newClient("b", 4), newClient("c", 4)
	m := startManager(t, a, b, c)

	assert.True(t, m.Subscribe("a", "ABCD", "p1"))
	assert.True(t, m.Subscribe("b", "ABCD", ""))
	assert.True(t, m.Subscribe("c", "WXYZ", "p2"))
	assert.False(t, m.Subscribe("ghost", "ABCD", ""))

	assert.Equal(t, 2, m.SendToRoom("ABCD", []byte("room")))
	assert.True(t, m.SendToPlayer("p2", []byte("private")))
	assert.False(t, m.SendToPlayer("p3", []byte("nobody")))
	assert.True(t, m.SendToClient("b", []byte("direct")))

	assert.Equal(t, []string{"room"}, drain(a))
	assert.Equal(t, []string{"room", "direct"}, drain(b))
	assert.Equal(t, []string{"private"}, drain(c))
}

func TestSlowClientDropsMessages(t *testing.T) {
	slow := newClient("slow", 1)
	m := startManager(t, slow)
	m.Subscribe("slow", "ABCD", "")

	assert.Equal(t, 1, m.SendToRoom("ABCD", []byte("one")))
	assert.Equal(t, 1, m.SendToRoom("ABCD", []byte("two")))
	assert.Equal(t, []string{"one"}, drain(slow))
}

func TestUnregisterClosesSend(t *testing.T) {
	c := newClient("c", 1)
	m := startManager(t, c)

	m.Unregister <- c
	require.Eventually(t, func() bool { return m.Count() == 0 }, time.Second, time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, m.SendToClient("c", []byte("late")))
}

func TestStoppedManagerDoesNotBlock(t *testing.T) {
	c := newClient("c", 1)
	m := NewManager()
	go m.Start()
	require.True(t, m.Add(c))
	m.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Remove(c)
		assert.False(t, m.Add(newClient("late", 1)))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client bookkeeping blocked after Stop")
	}
}

func drain(c *Client) []string {
	var out []string
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				return out
			}
			out = append(out, string(msg))
		default:
			return out
		}
	}
}
