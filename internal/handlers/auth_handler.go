package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/utils"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=patient doctor"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Age      int    `json:"age" binding:"omitempty,min=0"`
	Gender   string `json:"gender"`
}

// Signup creates a user plus its profile and returns a token. Duplicate
// email surfaces as 409 via the unique index; no second document is ever
// written.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := h.DB.Collection("users").InsertOne(c.Request.Context(), user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, "an account with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	profile := models.Profile{
		ID:                primitive.NewObjectID(),
		UserID:            user.ID,
		Phone:             req.Phone,
		Role:              role,
		Location:          req.Location,
		Age:               req.Age,
		Gender:            req.Gender,
		MedicalConditions: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := h.DB.Collection("profiles").InsertOne(c.Request.Context(), profile); err != nil {
		// Roll back the orphaned user so a retry does not land on the
		// duplicate-email conflict.
		if _, delErr := h.DB.Collection("users").DeleteOne(c.Request.Context(), bson.M{"_id": user.ID}); delErr != nil {
			log.Error().Err(delErr).Str("user_id", user.ID.Hex()).Msg("failed to remove user after profile write failure")
		}
		respondError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not generate token")
		return
	}

	respondData(c, http.StatusCreated, gin.H{"token": token, "user": user})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not generate token")
		return
	}

	respondData(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the caller's identity record.
func (h *Handler) Me(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var user models.User
	err := h.DB.Collection("users").FindOne(c.Request.Context(), bson.M{"_id": uid}).Decode(&user)
	if err != nil {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}

	respondData(c, http.StatusOK, user)
}
