// Package websocket pushes document lifecycle events to connected owners.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is one document lifecycle notification.
type Event struct {
	Type       string    `json:"type"` // document.uploaded, document.completed, document.deleted
	DocumentID string    `json:"documentId"`
	Status     string    `json:"status,omitempty"`
	At         time.Time `json:"at"`
}

// Hub maintains the set of active clients keyed by user id. A user may hold
// several connections (multiple tabs); events fan out to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	log.Printf("🔌 User connected: %s", c.UserID)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.UserID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.UserID)
			}
			log.Printf("🔌 User disconnected: %s", c.UserID)
		}
	}
}

// SendToUser delivers an event to every connection of one user. Returns
// false when the user has no live connection or every buffer is full.
// The read lock is held across the sends: remove closes the send channel
// under the write lock, so a snapshot-then-send would race a concurrent
// disconnect into a send on a closed channel.
func (h *Hub) SendToUser(userID string, event Event) bool {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.clients[userID]
	if len(conns) == 0 {
		return false
	}

	delivered := false
	for c := range conns {
		select {
		case c.send <- msg:
			delivered = true
		default:
			// Buffer full or client dead
		}
	}
	return delivered
}
