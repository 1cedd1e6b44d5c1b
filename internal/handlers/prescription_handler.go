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

type MedicationRequest struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage" binding:"required"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type CreatePrescriptionRequest struct {
	PatientID     string              `json:"patientId" binding:"required"`
	AppointmentID string              `json:"appointmentId"`
	Medications   []MedicationRequest `json:"medications" binding:"required,min=1,dive"`
	Notes         string              `json:"notes"`
}

// CreatePrescription lets a doctor author a medication list for a patient.
func (h *Handler) CreatePrescription(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid patient id")
		return
	}

	ctx := c.Request.Context()
	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": patientID}).Err(); err != nil {
		respondError(c, http.StatusNotFound, "patient not found")
		return
	}

	meds := make([]models.Medication, 0, len(req.Medications))
	for _, m := range req.Medications {
		meds = append(meds, models.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}

	now := time.Now().UTC()
	prescription := models.Prescription{
		ID:          primitive.NewObjectID(),
		PatientID:   patientID,
		DoctorID:    uid,
		Medications: meds,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.AppointmentID != "" {
		aptID, err := primitive.ObjectIDFromHex(req.AppointmentID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid appointment id")
			return
		}
		prescription.AppointmentID = &aptID
	}

	if _, err := h.DB.Collection("prescriptions").InsertOne(ctx, prescription); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create prescription")
		return
	}

	h.NotificationSvc.Notify(ctx, patientID, models.NotificationPrescription,
		"New prescription", "Your doctor issued a new prescription.")

	respondData(c, http.StatusCreated, prescription)
}

// ListPrescriptionsForPatient returns prescriptions issued to the caller.
func (h *Handler) ListPrescriptionsForPatient(c *gin.Context) {
	h.listPrescriptions(c, "patientId")
}

// ListPrescriptionsForDoctor returns prescriptions authored by the caller.
func (h *Handler) ListPrescriptionsForDoctor(c *gin.Context) {
	h.listPrescriptions(c, "doctorId")
}

func (h *Handler) listPrescriptions(c *gin.Context, field string) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Collection("prescriptions").Find(c.Request.Context(), bson.M{field: uid}, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve prescriptions")
		return
	}
	defer cursor.Close(c.Request.Context())

	prescriptions := make([]models.Prescription, 0)
	if err := cursor.All(c.Request.Context(), &prescriptions); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode prescriptions")
		return
	}

	respondData(c, http.StatusOK, prescriptions)
}

// GetPrescription returns one prescription to either of its participants.
func (h *Handler) GetPrescription(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid prescription id")
		return
	}

	var prescription models.Prescription
	err = h.DB.Collection("prescriptions").FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&prescription)
	if err != nil {
		respondError(c, http.StatusNotFound, "prescription not found")
		return
	}

	if prescription.PatientID != uid && prescription.DoctorID != uid {
		respondError(c, http.StatusForbidden, "not a participant of this prescription")
		return
	}

	respondData(c, http.StatusOK, prescription)
}
