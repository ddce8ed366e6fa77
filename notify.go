package main

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ServerEvent represents a server-pushed event
type ServerEvent struct {
	Type string `json:"type"` // "new_match" | "message" | "info" | "error"
	Data any    `json:"data,omitempty"`
}

// client represents one WebSocket connection of a user
type client struct {
	userID int
	conn   *websocket.Conn
	send   chan ServerEvent
}

// Hub manages WebSocket client connections and is the realtime delivery side
// of the match/message pipeline. The resolver only hands it the fact that a
// match exists; the hub decides who is connected and pushes to them.
type Hub struct {
	clientsByUser map[int]map[*client]bool
	mu            sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clientsByUser: make(map[int]map[*client]bool),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clientsByUser[c.userID] == nil {
		h.clientsByUser[c.userID] = make(map[*client]bool)
	}
	h.clientsByUser[c.userID][c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if peers, ok := h.clientsByUser[c.userID]; ok {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.clientsByUser, c.userID)
		}
	}
}

func (h *Hub) sendToUser(userID int, evt ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if peers, ok := h.clientsByUser[userID]; ok {
		for c := range peers {
			select {
			case c.send <- evt:
			default:
				// Drop event if the client's buffer is full
			}
		}
	}
}

// NotifyNewMatch pushes the new-match fact to both members. A user with no
// open connection simply misses the push; GET /matches is the durable view.
func (h *Hub) NotifyNewMatch(pairID string, userA, userB int) {
	evt := ServerEvent{
		Type: "new_match",
		Data: map[string]any{"match_id": pairID, "users": []int{userA, userB}},
	}
	h.sendToUser(userA, evt)
	h.sendToUser(userB, evt)
}

// NotifyMessage pushes a stored message to its recipient.
func (h *Hub) NotifyMessage(msg Message) {
	h.sendToUser(msg.RecipientID, ServerEvent{Type: "message", Data: msg})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// For development: allow the Vite dev origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws
// Push-only notification channel. Clients authenticate via the Authorization
// header or a ?token= query param (browsers can't set headers on WS).
func wsHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := getUserIDFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WS upgrade error for user %d: %v", userID, err)
			return
		}

		c := &client{
			userID: userID,
			conn:   conn,
			send:   make(chan ServerEvent, 16),
		}
		hub.register(c)

		// Announce connection to this client
		c.send <- ServerEvent{Type: "info", Data: "connected"}

		// Start writer
		go clientWriter(c)
		// Start reader (blocks until the peer goes away)
		clientReader(hub, c)
	}
}

// clientReader drains the connection so pings/pongs and close frames are
// processed. Inbound payloads are ignored: all mutations go through the REST
// surface.
func clientReader(hub *Hub, c *client) {
	defer func() {
		hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}

func clientWriter(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
