package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/ws"
)

// NotificationService persists in-app notifications and pushes them over
// the recipient's realtime channel when connected.
type NotificationService struct {
	db  *mongo.Database
	hub *ws.Hub
}

func NewNotificationService(db *mongo.Database, hub *ws.Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// Notify writes the notification document and fans it out. The push is
// best-effort; a write failure is logged, never surfaced to the caller's
// request.
func (s *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, kind, title, body string) {
	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to persist notification")
		return
	}

	s.hub.Broadcast(ws.UserRoom(userID.Hex()), ws.Event{
		Type:      "notification",
		Content:   title,
		Timestamp: n.CreatedAt,
	})
}
