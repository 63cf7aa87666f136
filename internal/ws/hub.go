// Package ws pushes order lifecycle events to connected POS terminals.
// Each outlet is a room; the kitchen display and cashier screens of one
// outlet never see another outlet's traffic.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed to terminals.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderSettled       = "order.settled"
	EventOrderCancelled     = "order.cancelled"
)

// Event is one message on the wire.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEvent builds an event, marshaling the payload. A payload that
// cannot marshal yields an event with a null payload rather than none;
// terminals refetch on anything they cannot parse.
func NewEvent(eventType string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal ws payload for %s: %v", eventType, err)
		raw = []byte("null")
	}
	return Event{Type: eventType, Payload: raw}
}

// Hub tracks connected clients per outlet and fans events out to them.
// All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.outletID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.outletID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.outletID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.outletID)
	}
}

// BroadcastToOutlet sends an event to every client in an outlet's room.
// A client whose send buffer is full is dropped; its read pump notices
// the closed channel and the terminal reconnects.
func (h *Hub) BroadcastToOutlet(outletID uuid.UUID, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: marshal ws event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[outletID]
	for client := range room {
		select {
		case client.send <- message:
		default:
			delete(room, client)
			close(client.send)
		}
	}
	if len(room) == 0 {
		delete(h.rooms, outletID)
	}
}

// ClientCount reports the number of connections in an outlet's room.
func (h *Hub) ClientCount(outletID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[outletID])
}
