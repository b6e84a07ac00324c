package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live connections per room and fans events out to them. It owns
// an arena of connection handles keyed by connection id; each room holds a
// set of ids, not handles, so the hub never couples room state to a socket's
// lifetime. All state is in-memory and dies with the process; clients
// re-subscribe after a restart and catch up from history.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Client
	rooms map[uint]*roomSet
}

// roomSet carries its own lock so subscribe/publish races in one room never
// block traffic in another.
type roomSet struct {
	mu      sync.Mutex
	members map[uuid.UUID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]*Client),
		rooms: make(map[uint]*roomSet),
	}
}

// Subscribe registers a connection under a room. A connection belongs to at
// most one room.
func (h *Hub) Subscribe(roomID uint, client *Client) {
	h.mu.Lock()
	h.conns[client.ID] = client
	room, ok := h.rooms[roomID]
	if !ok {
		room = &roomSet{members: make(map[uuid.UUID]struct{})}
		h.rooms[roomID] = room
	}
	// Membership is added under the hub lock as well, so a concurrent
	// Unsubscribe cannot release the room entry between the lookup and the
	// insert.
	room.mu.Lock()
	room.members[client.ID] = struct{}{}
	room.mu.Unlock()
	h.mu.Unlock()

	log.Printf("hub: connection %s subscribed to room %d (user %s)", client.ID, roomID, client.UserID)
}

// Unsubscribe removes a connection. When the room's subscriber set empties,
// the room entry itself is released.
func (h *Hub) Unsubscribe(roomID uint, client *Client) {
	h.mu.Lock()
	delete(h.conns, client.ID)
	room := h.rooms[roomID]
	if room != nil {
		room.mu.Lock()
		delete(room.members, client.ID)
		empty := len(room.members) == 0
		room.mu.Unlock()
		if empty {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	client.close()
}

// Publish delivers an event to every connection currently subscribed to the
// room. Delivery is best-effort per peer: a connection that cannot take the
// event is dropped after the pass, and the remaining peers still receive it.
func (h *Hub) Publish(roomID uint, event Event) {
	h.publish(roomID, uuid.Nil, event)
}

// PublishExcept is Publish minus one connection; used to relay
// client-originated events to the sender's siblings.
func (h *Hub) PublishExcept(roomID uint, exclude uuid.UUID, event Event) {
	h.publish(roomID, exclude, event)
}

func (h *Hub) publish(roomID uint, exclude uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: marshal %s event: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room == nil {
		return
	}

	// Snapshot the subscriber set before sending so a peer disconnecting
	// mid-broadcast cannot corrupt the iteration.
	room.mu.Lock()
	ids := make([]uuid.UUID, 0, len(room.members))
	for id := range room.members {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	room.mu.Unlock()

	var failed []*Client
	for _, id := range ids {
		h.mu.RLock()
		client := h.conns[id]
		h.mu.RUnlock()
		if client == nil {
			continue
		}
		if !client.enqueue(data) {
			failed = append(failed, client)
		}
	}

	for _, client := range failed {
		log.Printf("hub: dropping unreachable connection %s (room %d)", client.ID, roomID)
		h.Unsubscribe(roomID, client)
	}
}

// RoomSize reports the current number of subscribers of a room.
func (h *Hub) RoomSize(roomID uint) int {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room == nil {
		return 0
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return len(room.members)
}
