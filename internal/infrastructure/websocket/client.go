package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sociogram/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 64 * 1024
	sendBuffer   = 256
)

// Client is a single live connection for a user.
type Client struct {
	UserID string

	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// enqueue offers a frame to the write pump without blocking. A full
// buffer means the peer is too slow; the frame is dropped.
func (c *Client) enqueue(frame []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- frame:
		return true
	default:
		logger.Warn("send buffer full for %s, dropping frame", c.UserID)
		return false
	}
}

// ReadPump consumes frames until the connection dies, dispatching chat
// events to the manager's handler. It must run on its own goroutine.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read error for %s: %v", c.UserID, err)
			}
			return
		}
		c.dispatch(m, raw)
	}
}

func (c *Client) dispatch(m *Manager, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.enqueue(Marshal(EventError, map[string]string{"message": "Invalid frame"}))
		return
	}
	if m.handler == nil {
		return
	}

	ctx := context.Background()
	switch envelope.Event {
	case EventSendMessage:
		var payload DirectMessagePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.enqueue(Marshal(EventError, map[string]string{"message": "Invalid payload"}))
			return
		}
		m.handler.OnDirectMessage(ctx, c, payload)

	case EventSendGroupMessage:
		var payload GroupMessagePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.enqueue(Marshal(EventError, map[string]string{"message": "Invalid payload"}))
			return
		}
		m.handler.OnGroupMessage(ctx, c, payload)

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			return
		}
		payload.UserID = c.UserID
		m.SendToUser(payload.SendTo, Marshal(EventTyping, payload))

	default:
		c.enqueue(Marshal(EventError, map[string]string{"message": "Unknown event"}))
	}
}

// WritePump drains the send channel onto the wire and keeps the
// connection alive with pings. It must run on its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
