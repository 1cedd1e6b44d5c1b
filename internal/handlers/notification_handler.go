package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := h.DB.Collection("notifications").Find(c.Request.Context(), bson.M{"userId": uid}, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve notifications")
		return
	}
	defer cursor.Close(c.Request.Context())

	notifications := make([]models.Notification, 0)
	if err := cursor.All(c.Request.Context(), &notifications); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode notifications")
		return
	}

	respondData(c, http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid notification id")
		return
	}

	res, err := h.DB.Collection("notifications").UpdateOne(c.Request.Context(),
		bson.M{"_id": id, "userId": uid},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now().UTC()}})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update notification")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "notification not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"read": true})
}
