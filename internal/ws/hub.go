// Package ws implements the real-time relay: an authenticated hub of
// per-conversation rooms layered over the durable message store. The
// realtime path is best-effort; persisted history stays authoritative.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is a payload broadcast into a room.
type Event struct {
	Type      string    `json:"type"` // "message", "notification", "joined", "error", "pong"
	Room      string    `json:"room,omitempty"`
	SenderID  string    `json:"senderId,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one websocket connection bound to a verified user.
type Client struct {
	ID     string
	UserID string
	Send   chan []byte
}

// UserRoom is the per-user channel every connection joins on register.
func UserRoom(userID string) string {
	return "user:" + userID
}

// ChatRoom derives the conversation room for an unordered participant
// pair. Both sides always land on the same key.
func ChatRoom(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "chat:" + a + ":" + b
}

// Hub tracks connected clients and their room memberships. All
// operations are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	all   map[*Client]map[string]struct{} // client -> joined rooms
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		all:   make(map[*Client]map[string]struct{}),
	}
}

// Register adds a client and joins it to its own user channel.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = make(map[string]struct{})
	h.joinLocked(client, UserRoom(client.UserID))
}

// Unregister removes a client from every room and closes its Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	joined, ok := h.all[client]
	if !ok {
		return
	}

	for room := range joined {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)
}

// Join subscribes a registered client to a room.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}
	h.joinLocked(client, room)
}

func (h *Hub) joinLocked(client *Client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	h.all[client][room] = struct{}{}
}

// InRoom reports whether a client has joined a room.
func (h *Hub) InRoom(client *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	joined, ok := h.all[client]
	if !ok {
		return false
	}
	_, in := joined[room]
	return in
}

// Broadcast fans an event out to every member of a room. Members whose
// send buffer is full are skipped; delivery here is at-most-once.
func (h *Hub) Broadcast(room string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("room", room).Msg("ws: failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// RoomCount returns the number of clients joined to a room.
func (h *Hub) RoomCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
