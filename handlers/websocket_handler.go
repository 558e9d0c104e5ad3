package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/wsv-pion/clubsite/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the club site origin once the frontend domain
		// is fixed.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
	log *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: logger}
}

// ServeWs subscribes the client to live updates for one league.
// Clients connect to /ws/megaschaak/{league}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	if league == "" {
		http.Error(w, "Missing league", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		h.log.Warn("websocket upgrade failed", "league", league, "error", err)
		return
	}

	client := &live.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		League: league,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
