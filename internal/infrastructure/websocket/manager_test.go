package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return frames
			}
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestRegisterLastConnectionWins(t *testing.T) {
	m := NewManager()
	first := NewClient("alice", nil)
	second := NewClient("alice", nil)

	m.Register(first)
	m.Register(second)

	assert.True(t, m.IsOnline("alice"))
	assert.True(t, m.SendToUser("alice", []byte("hi")))
	assert.Len(t, drain(second), 1)

	// the replaced connection's channel is closed
	_, open := <-first.send
	assert.False(t, open)
}

func TestUnregisterOfStaleConnectionKeepsFreshOne(t *testing.T) {
	m := NewManager()
	first := NewClient("alice", nil)
	second := NewClient("alice", nil)

	m.Register(first)
	m.Register(second)
	m.Unregister(first)

	assert.True(t, m.IsOnline("alice"), "stale disconnect must not evict the fresh session")
	assert.True(t, m.SendToUser("alice", []byte("hi")))
}

func TestUnregisterAnnouncesOffline(t *testing.T) {
	m := NewManager()
	alice := NewClient("alice", nil)
	bob := NewClient("bob", nil)

	m.Register(alice)
	m.Register(bob)
	m.Unregister(alice)

	assert.False(t, m.IsOnline("alice"))
	assert.False(t, m.SendToUser("alice", []byte("hi")))

	frames := drain(bob)
	require.Len(t, frames, 1)
	var envelope Envelope
	require.NoError(t, json.Unmarshal(frames[0], &envelope))
	assert.Equal(t, EventOfflineUser, envelope.Event)
	assert.Contains(t, string(envelope.Data), "alice")
}

func TestFanOutSkipsSenderAndOffline(t *testing.T) {
	m := NewManager()
	bob := NewClient("bob", nil)
	carol := NewClient("carol", nil)
	m.Register(bob)
	m.Register(carol)

	delivered := m.FanOut([]string{"alice", "bob", "carol", "dave"}, "bob", []byte("hi"))

	assert.Equal(t, 1, delivered)
	assert.Empty(t, drain(bob))
	assert.Len(t, drain(carol), 1)
}

func TestSendToUserOffline(t *testing.T) {
	m := NewManager()
	assert.False(t, m.SendToUser("nobody", []byte("hi")))
}
