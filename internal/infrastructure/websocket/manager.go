package websocket

import (
	"context"
	"sync"

	"sociogram/pkg/logger"
)

// EventHandler receives chat events parsed off the realtime channel. It is
// implemented by the chat usecase; keeping it an interface here avoids an
// import cycle between the gateway and the usecases.
type EventHandler interface {
	OnDirectMessage(ctx context.Context, sender *Client, payload DirectMessagePayload)
	OnGroupMessage(ctx context.Context, sender *Client, payload GroupMessagePayload)
}

// Manager is the connection registry: one live client per user ID. A new
// connection for the same user replaces the previous one, and a disconnect
// only clears the entry if it still belongs to that exact connection, so a
// stale close can never evict a fresh session.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
	handler EventHandler
}

func NewManager() *Manager {
	return &Manager{clients: make(map[string]*Client)}
}

// SetHandler wires the chat usecase in after construction.
func (m *Manager) SetHandler(h EventHandler) {
	m.handler = h
}

// Register records the client as the user's live connection. The previous
// connection, if any, is closed.
func (m *Manager) Register(client *Client) {
	m.mu.Lock()
	previous := m.clients[client.UserID]
	m.clients[client.UserID] = client
	m.mu.Unlock()

	if previous != nil && previous != client {
		previous.close()
	}
	logger.Info("client connected: %s", client.UserID)
}

// Unregister removes the client and announces the user offline, but only
// when the registry still points at this exact connection.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	current, ok := m.clients[client.UserID]
	if !ok || current != client {
		m.mu.Unlock()
		return
	}
	delete(m.clients, client.UserID)
	m.mu.Unlock()

	client.close()
	logger.Info("client disconnected: %s", client.UserID)
	m.Broadcast(Marshal(EventOfflineUser, map[string]string{"userId": client.UserID}), client.UserID)
}

// IsOnline reports whether the user has a live connection.
func (m *Manager) IsOnline(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// SendToUser delivers a frame to the user's live connection. It reports
// false when the user is offline or the connection's buffer is full.
func (m *Manager) SendToUser(userID string, frame []byte) bool {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return client.enqueue(frame)
}

// FanOut delivers a frame to every listed user that is online, skipping
// the excluded ID. It returns the number of deliveries.
func (m *Manager) FanOut(userIDs []string, exceptUserID string, frame []byte) int {
	delivered := 0
	for _, id := range userIDs {
		if id == exceptUserID {
			continue
		}
		if m.SendToUser(id, frame) {
			delivered++
		}
	}
	return delivered
}

// Broadcast sends a frame to every connected user except one.
func (m *Manager) Broadcast(frame []byte, exceptUserID string) {
	m.mu.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for id, client := range m.clients {
		if id == exceptUserID {
			continue
		}
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	for _, client := range clients {
		client.enqueue(frame)
	}
}
