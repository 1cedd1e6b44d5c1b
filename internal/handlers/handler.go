package handlers

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthkonnect/healthkonnect-api/internal/services"
	"github.com/healthkonnect/healthkonnect-api/internal/ws"
)

// Handler carries the shared dependencies for every route handler.
type Handler struct {
	DB              *mongo.Database
	NotificationSvc *services.NotificationService
	Hub             *ws.Hub
	Cache           *cache.Cache
	StartedAt       time.Time
}

func NewHandler(db *mongo.Database, notificationSvc *services.NotificationService, hub *ws.Hub, c *cache.Cache) *Handler {
	return &Handler{
		DB:              db,
		NotificationSvc: notificationSvc,
		Hub:             hub,
		Cache:           c,
		StartedAt:       time.Now(),
	}
}
