package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"go-social-api/internal/event"
)

// Hub fans bus events out to connected feed clients, grouped by project.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	bus        event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		bus:        bus,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			group, ok := h.clients[c.project]
			if !ok {
				group = make(map[*Client]struct{})
				h.clients[c.project] = group
			}
			group[c] = struct{}{}
		case c := <-h.unregister:
			h.remove(c)
		case e, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(e)
		}
	}
}

func (h *Hub) broadcast(e event.Event) {
	group := h.clients[e.Project]
	if len(group) == 0 {
		return
	}

	message, err := json.Marshal(e)
	if err != nil {
		slog.Error("failed to marshal event", "error", err, "type", e.Type)
		return
	}

	for c := range group {
		select {
		case c.send <- message:
		default:
			slog.Warn("dropping slow feed client", "user_id", c.userID, "project", c.project)
			h.remove(c)
		}
	}
}

func (h *Hub) remove(c *Client) {
	group, ok := h.clients[c.project]
	if !ok {
		return
	}
	if _, ok := group[c]; !ok {
		return
	}

	delete(group, c)
	close(c.send)
	if len(group) == 0 {
		delete(h.clients, c.project)
	}
}

func (h *Hub) closeAll() {
	for _, group := range h.clients {
		for c := range group {
			h.remove(c)
		}
	}
}

// Register blocks until the hub accepts c, the hub stops or ctx ends.
func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) Unregister(ctx context.Context, c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	case <-ctx.Done():
	}
}
