package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/healthkonnect/healthkonnect-api/internal/middleware"
)

// Success bodies are {"data": ...}; failures are
// {"error": {"message": ...}} with the matching HTTP status.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}

// callerID extracts the authenticated user's ObjectID from the request
// context. Aborts with 401 when absent or malformed.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	idHex := c.GetString(middleware.CtxUserID)
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return primitive.NilObjectID, false
	}
	return id, true
}
