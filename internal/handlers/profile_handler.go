package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/middleware"
	"github.com/healthkonnect/healthkonnect-api/internal/models"
)

// GetProfile returns the caller's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var profile models.Profile
	err := h.DB.Collection("profiles").FindOne(c.Request.Context(), bson.M{"userId": uid}).Decode(&profile)
	if err != nil {
		respondError(c, http.StatusNotFound, "profile not found")
		return
	}

	respondData(c, http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	Phone             *string   `json:"phone"`
	Location          *string   `json:"location"`
	Age               *int      `json:"age" binding:"omitempty,min=0"`
	Gender            *string   `json:"gender"`
	MedicalConditions *[]string `json:"medicalConditions"`
}

// UpdateProfile upserts the caller's profile. The unique index on userId
// keeps repeated PUTs idempotent: one document, updated in place.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Age != nil {
		set["age"] = *req.Age
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}
	if req.MedicalConditions != nil {
		set["medicalConditions"] = *req.MedicalConditions
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"userId":    uid,
			"role":      c.GetString(middleware.CtxUserRole),
			"createdAt": time.Now().UTC(),
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var profile models.Profile
	err := h.DB.Collection("profiles").
		FindOneAndUpdate(c.Request.Context(), bson.M{"userId": uid}, update, opts).
		Decode(&profile)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondData(c, http.StatusOK, profile)
}
