package handler

import (
	"log/slog"
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"

	"go-social-api/internal/websocket"
)

// FeedHandler upgrades authenticated requests to the project event feed.
type FeedHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewFeedHandler(hub *websocket.Hub, origins []string) *FeedHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[strings.ToLower(origin)] = struct{}{}
	}

	return &FeedHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[strings.ToLower(origin)]
				return ok
			},
		},
	}
}

func (h *FeedHandler) Connect(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.Debug("feed upgrade failed", "user_id", identity.ID, "error", err)
		return
	}

	websocket.NewClient(conn, identity.ID, identity.Project).Serve(r.Context(), h.hub)
}
