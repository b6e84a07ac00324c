package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one live subscription: a websocket connection pinned to a single
// room. Outbound events go through a buffered channel; a peer that cannot
// drain it is treated as unreachable and dropped by the hub, never waited on.
type Client struct {
	ID       uuid.UUID
	UserID   string
	UserName string
	RoomID   uint
	Conn     *websocket.Conn

	hub *Hub

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID uint, userID, userName string) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		UserName: userName,
		RoomID:   roomID,
		Conn:     conn,
		hub:      hub,
		send:     make(chan []byte, 256),
	}
}

// enqueue hands an event to the write pump. Returns false when the client is
// gone or its buffer is full; the caller decides what to do about it.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// inboundEvent is what clients are allowed to push: typing notifications
// only. Everything else arrives over the HTTP API.
type inboundEvent struct {
	Type EventType `json:"type"`
	User UserRef   `json:"user"`
}

// ReadPump consumes client events until the connection dies, then
// unsubscribes deterministically. Typing events are relayed to the room's
// other subscribers tagged with the sending user and a server timestamp;
// they are never persisted.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unsubscribe(c.RoomID, c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg inboundEvent
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}

		switch msg.Type {
		case EventTypingStart, EventTypingStop:
			user := msg.User
			if user.ID == "" {
				user = UserRef{ID: c.UserID, Name: c.UserName}
			}
			c.hub.PublishExcept(c.RoomID, c.ID, NewTypingEvent(msg.Type, user))
		default:
			// Other client events are ignored.
		}
	}
}

// WritePump pushes queued events to the peer and keeps the connection alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
