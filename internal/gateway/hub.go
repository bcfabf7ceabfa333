// Package gateway carries the chat protocol over WebSockets. Guests talk to
// the bot engine through /ws; staff dashboards subscribe to /ws/feed for
// live redemption events.
package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a notification pushed to feed subscribers.
type Event struct {
	Type       string         `json:"type"`
	ExternalID int64          `json:"external_id,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Hub maintains the set of connected feed clients and broadcasts events.
type Hub struct {
	mu      sync.RWMutex
	clients map[*FeedClient]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*FeedClient]struct{}),
		logger:  logger,
	}
}

// Register adds a feed client to the hub.
func (h *Hub) Register(c *FeedClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a feed client and closes its send channel.
func (h *Hub) Unregister(c *FeedClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to all connected feed clients.
func (h *Hub) Broadcast(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Drop the event rather than block on a full client buffer
		}
	}
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
