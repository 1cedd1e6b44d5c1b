package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthkonnect/healthkonnect-api/internal/utils"
)

// Inbound is what a connected client may send.
type Inbound struct {
	Type    string `json:"type"` // "join", "message", "ping"
	PeerID  string `json:"peerId,omitempty"`
	Content string `json:"content,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP connections and routes relay traffic.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve authenticates the handshake, upgrades the connection, and starts
// the read/write pumps. Room membership is derived server-side from the
// verified identity; clients never supply room strings.
func (h *Handler) Serve(c *gin.Context) {
	claims, err := utils.ValidateJWT(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "invalid token"}})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(client)

	log.Debug().Str("user_id", client.UserID).Str("client_id", client.ID).Msg("ws: connection opened")

	go h.writePump(client, conn)
	h.readPump(client, conn)
}

func (h *Handler) readPump(client *Client, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	for {
		var msg Inbound
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "ping":
			h.hub.Broadcast(UserRoom(client.UserID), Event{Type: "pong", Timestamp: time.Now().UTC()})

		case "join":
			if _, err := primitive.ObjectIDFromHex(msg.PeerID); err != nil {
				h.sendError(client, "invalid peer id")
				continue
			}
			room := ChatRoom(client.UserID, msg.PeerID)
			h.hub.Join(client, room)
			h.hub.Broadcast(UserRoom(client.UserID), Event{Type: "joined", Room: room, Timestamp: time.Now().UTC()})

		case "message":
			if msg.PeerID == "" || msg.Content == "" {
				continue
			}
			room := ChatRoom(client.UserID, msg.PeerID)
			// Join-before-send: relaying into a room the caller never
			// joined is refused.
			if !h.hub.InRoom(client, room) {
				h.sendError(client, "join the room before sending")
				continue
			}
			h.hub.Broadcast(room, Event{
				Type:      "message",
				Room:      room,
				SenderID:  client.UserID,
				Content:   msg.Content,
				Timestamp: time.Now().UTC(),
			})
		}
	}
}

func (h *Handler) writePump(client *Client, conn *websocket.Conn) {
	defer conn.Close()

	for data := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (h *Handler) sendError(client *Client, msg string) {
	h.hub.Broadcast(UserRoom(client.UserID), Event{Type: "error", Content: msg, Timestamp: time.Now().UTC()})
}
