package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/ws"
)

type SendMessageRequest struct {
	ReceiverID    string `json:"receiverId" binding:"required"`
	Content       string `json:"content" binding:"required"`
	AppointmentID string `json:"appointmentId"`
}

// SendMessage persists a chat message and relays it into the conversation
// room. The durable write is authoritative; the relay is best-effort and
// is not rolled back if a recipient is offline.
func (h *Handler) SendMessage(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid receiver id")
		return
	}
	if receiverID == uid {
		respondError(c, http.StatusBadRequest, "cannot send a message to yourself")
		return
	}

	ctx := c.Request.Context()

	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": receiverID}).Err(); err != nil {
		respondError(c, http.StatusNotFound, "receiver not found")
		return
	}

	msg := models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   uid,
		ReceiverID: receiverID,
		Content:    req.Content,
		// Delivered means the receiver had a live connection at send time.
		Delivered: h.Hub.RoomCount(ws.UserRoom(receiverID.Hex())) > 0,
		CreatedAt: time.Now().UTC(),
	}
	if req.AppointmentID != "" {
		aptID, err := primitive.ObjectIDFromHex(req.AppointmentID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid appointment id")
			return
		}
		msg.AppointmentID = &aptID
	}

	if _, err := h.DB.Collection("messages").InsertOne(ctx, msg); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to send message")
		return
	}

	room := ws.ChatRoom(uid.Hex(), receiverID.Hex())
	h.Hub.Broadcast(room, ws.Event{
		Type:      "message",
		Room:      room,
		SenderID:  uid.Hex(),
		Content:   msg.Content,
		Timestamp: msg.CreatedAt,
	})
	h.NotificationSvc.Notify(ctx, receiverID, models.NotificationMessage,
		"New message", msg.Content)

	respondData(c, http.StatusCreated, msg)
}

// ListMessages returns the caller's messages (either side), newest first,
// capped at 100.
func (h *Handler) ListMessages(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	filter := bson.M{"$or": []bson.M{{"senderId": uid}, {"receiverId": uid}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(100)

	cursor, err := h.DB.Collection("messages").Find(c.Request.Context(), filter, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve messages")
		return
	}
	defer cursor.Close(c.Request.Context())

	messages := make([]models.Message, 0)
	if err := cursor.All(c.Request.Context(), &messages); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode messages")
		return
	}

	respondData(c, http.StatusOK, messages)
}
