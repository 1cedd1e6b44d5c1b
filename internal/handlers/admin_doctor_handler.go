package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/utils"
)

type AdminCreateDoctorRequest struct {
	// Either an existing user id, or an email+name pair for a placeholder
	// login user the doctor record will own.
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail" binding:"omitempty,email"`

	Name            string   `json:"name" binding:"required"`
	Specialization  string   `json:"specialization" binding:"required"`
	City            string   `json:"city" binding:"required"`
	Hospital        string   `json:"hospital"`
	ConsultationFee float64  `json:"consultationFee" binding:"omitempty,min=0"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	AvailableSlots  []string `json:"availableSlots"`
}

// AdminCreateDoctor creates a doctor record, provisioning a placeholder
// user when no existing one is supplied.
func (h *Handler) AdminCreateDoctor(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	var req AdminCreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()

	var ownerID primitive.ObjectID
	if req.UserID != "" {
		var err error
		ownerID, err = primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid user id")
			return
		}
		if err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": ownerID}).Err(); err != nil {
			respondError(c, http.StatusNotFound, "owning user not found")
			return
		}
	} else {
		if req.UserEmail == "" {
			respondError(c, http.StatusBadRequest, "userId or userEmail is required")
			return
		}
		// Placeholder login identity; the password is random and must be
		// reset before the doctor can sign in.
		hashed, err := utils.HashPassword(uuid.New().String())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to provision user")
			return
		}
		owner := models.User{
			ID:        primitive.NewObjectID(),
			Name:      req.Name,
			Email:     req.UserEmail,
			Password:  hashed,
			Role:      models.RoleDoctor,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := h.DB.Collection("users").InsertOne(ctx, owner); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, "an account with this email already exists")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to provision user")
			return
		}
		ownerID = owner.ID
	}

	doctor := models.Doctor{
		ID:              primitive.NewObjectID(),
		UserID:          ownerID,
		Name:            req.Name,
		Specialization:  req.Specialization,
		City:            req.City,
		Hospital:        req.Hospital,
		ConsultationFee: req.ConsultationFee,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		AvailableSlots:  req.AvailableSlots,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if doctor.AvailableSlots == nil {
		doctor.AvailableSlots = []string{}
	}

	if _, err := h.DB.Collection("doctors").InsertOne(ctx, doctor); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create doctor")
		return
	}

	h.audit(c, actor, "create", "doctor", doctor.ID.Hex(), doctor.Name)
	h.Cache.Delete(doctorListCacheKey)

	respondData(c, http.StatusCreated, doctor)
}

// AdminListDoctors returns all doctors, bypassing the public cache.
func (h *Handler) AdminListDoctors(c *gin.Context) {
	doctors, err := h.findDoctors(c, bson.M{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve doctors")
		return
	}
	respondData(c, http.StatusOK, doctors)
}

type AdminUpdateDoctorRequest struct {
	Name            *string   `json:"name"`
	Specialization  *string   `json:"specialization"`
	City            *string   `json:"city"`
	Hospital        *string   `json:"hospital"`
	Rating          *float64  `json:"rating" binding:"omitempty,min=0,max=5"`
	ReviewCount     *int      `json:"reviewCount" binding:"omitempty,min=0"`
	ConsultationFee *float64  `json:"consultationFee" binding:"omitempty,min=0"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	AvailableSlots  *[]string `json:"availableSlots"`
}

// AdminUpdateDoctor applies a partial update; only supplied fields change.
func (h *Handler) AdminUpdateDoctor(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctor id")
		return
	}

	var req AdminUpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Specialization != nil {
		set["specialization"] = *req.Specialization
	}
	if req.City != nil {
		set["city"] = *req.City
	}
	if req.Hospital != nil {
		set["hospital"] = *req.Hospital
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}
	if req.ReviewCount != nil {
		set["reviewCount"] = *req.ReviewCount
	}
	if req.ConsultationFee != nil {
		set["consultationFee"] = *req.ConsultationFee
	}
	if req.Latitude != nil {
		set["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		set["longitude"] = *req.Longitude
	}
	if req.AvailableSlots != nil {
		set["availableSlots"] = *req.AvailableSlots
	}
	if len(set) == 0 {
		respondError(c, http.StatusBadRequest, "no update fields provided")
		return
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := h.DB.Collection("doctors").UpdateByID(c.Request.Context(), id, bson.M{"$set": set})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update doctor")
		return
	}
	if res.MatchedCount == 0 {
		respondError(c, http.StatusNotFound, "doctor not found")
		return
	}

	h.audit(c, actor, "update", "doctor", id.Hex(), "")
	h.Cache.Delete(doctorListCacheKey)

	var doctor models.Doctor
	if err := h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&doctor); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load doctor")
		return
	}
	respondData(c, http.StatusOK, doctor)
}

// AdminDeleteDoctor removes the doctor record. The owning user record
// stays so existing appointments keep a valid participant.
func (h *Handler) AdminDeleteDoctor(c *gin.Context) {
	actor, ok := callerID(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctor id")
		return
	}

	res, err := h.DB.Collection("doctors").DeleteOne(c.Request.Context(), bson.M{"_id": id})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete doctor")
		return
	}
	if res.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "doctor not found")
		return
	}

	h.audit(c, actor, "delete", "doctor", id.Hex(), "")
	h.Cache.Delete(doctorListCacheKey)

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// audit appends an audit_logs document. A failed write never blocks the
// admin action itself.
func (h *Handler) audit(c *gin.Context, actor primitive.ObjectID, action, entity, entityID, detail string) {
	_, _ = h.DB.Collection("audit_logs").InsertOne(c.Request.Context(), models.AuditLog{
		ID:        primitive.NewObjectID(),
		ActorID:   actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
}
