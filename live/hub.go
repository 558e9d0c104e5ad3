// Package live pushes Megaschaak updates to connected browsers.
// Every league name is a room; a standings change in a league is
// broadcast to everyone watching that league.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message is the envelope sent to clients.
type Message struct {
	Type    string      `json:"type"`
	League  string      `json:"league,omitempty"`
	Payload interface{} `json:"payload"`
}

// Event types sent over the wire.
const (
	EventStandingsUpdated = "STANDINGS_UPDATED"
	EventTeamChanged      = "TEAM_CHANGED"
)

type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	League string

	mu     sync.Mutex
	closed bool
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	log   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		log:        logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.League]; !ok {
				h.rooms[client.League] = make(map[*Client]bool)
			}
			h.rooms[client.League][client] = true
			h.log.Debug("websocket client joined", "league", client.League, "clients", len(h.rooms[client.League]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.League]; ok {
				if _, inRoom := room[client]; inRoom {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.League)
					}
					h.log.Debug("websocket client left", "league", client.League)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToLeague sends a message to every client watching the league.
func (h *Hub) BroadcastToLeague(league string, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[league]
	if !ok {
		return
	}

	data, err := json.Marshal(Message{Type: eventType, League: league, Payload: payload})
	if err != nil {
		h.log.Error("failed to marshal broadcast message", "league", league, "error", err)
		return
	}

	for client := range room {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- data:
		default:
			// Slow client; drop the message rather than block the hub.
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// ReadPump drains the connection. Incoming frames are ignored; the
// socket is one-way, reads only serve pong handling and close detection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
