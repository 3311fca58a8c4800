// Package notify broadcasts cell recalculation events to connected
// WebSocket clients (SPEC_FULL.md §4.16), grounded on the teacher's
// websocket broadcast hub shape: a registry of client connections guarded
// by a mutex, which ServeHTTP, Broadcast and ClientCount hold around
// every access to the connection set.
package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is one recalculation notification. It carries only an already-
// computed (key, value) pair — notify never reads from or writes to the
// symbol table itself (spec.md §9), keeping the driver the sole mutator.
type Event struct {
	Cell      string    `json:"cell"`
	Value     float64   `json:"value"`
	Session   string    `json:"session"`
	At        time.Time `json:"at"`
	Humanized string    `json:"humanized"`
}

// Hub is a broadcast registry of subscribed WebSocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string // conn -> session id

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*websocket.Conn]string),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// ServeHTTP upgrades the connection and registers it under a fresh
// session id, holding the connection open until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("notify: upgrade failed: %v", err)
		return
	}
	session := uuid.NewString()

	h.mu.Lock()
	h.clients[conn] = session
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast publishes a recalculation event to every connected client,
// one tagged with that client's own session id. humanize.Comma renders
// large sums legibly before each event is marshaled to JSON.
func (h *Hub) Broadcast(cell string, v float64) {
	base := Event{
		Cell: cell, Value: v, At: time.Now(),
		Humanized: humanize.Comma(int64(v)),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, session := range h.clients {
		evt := base
		evt.Session = session
		payload, err := json.Marshal(evt)
		if err != nil {
			log.Printf("notify: marshal failed: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("notify: write to session %s failed: %v", session, err)
		}
	}
}

// ClientCount reports the number of currently connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
