package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
)

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Date     string `json:"date" binding:"required"` // YYYY-MM-DD
	Time     string `json:"time" binding:"required"` // HH:MM
	Symptoms string `json:"symptoms"`
	Notes    string `json:"notes"`
}

// CreateAppointment books a slot for the authenticated patient. The
// insert is conditional: the partial unique index on slotKey turns a
// concurrent double-book into a duplicate-key error, answered with 409.
func (h *Handler) CreateAppointment(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}
	slot, err := time.Parse("15:04", req.Time)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid time, use HH:MM")
		return
	}
	// Canonical zero-padded label; "9:00" and "09:00" are the same slot.
	req.Time = slot.Format("15:04")

	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctor id")
		return
	}

	ctx := c.Request.Context()

	var doctor models.Doctor
	if err := h.DB.Collection("doctors").FindOne(ctx, bson.M{"_id": doctorID}).Decode(&doctor); err != nil {
		respondError(c, http.StatusNotFound, "doctor not found")
		return
	}

	var patient models.User
	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"_id": uid}).Decode(&patient); err != nil {
		respondError(c, http.StatusNotFound, "patient not found")
		return
	}

	now := time.Now().UTC()
	apt := models.Appointment{
		ID:          primitive.NewObjectID(),
		PatientID:   uid,
		DoctorID:    doctor.UserID,
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
		Date:        day,
		Time:        req.Time,
		Status:      models.AppointmentPending,
		Symptoms:    req.Symptoms,
		Notes:       req.Notes,
		SlotKey:     models.SlotKey(doctor.UserID, day, req.Time),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := h.DB.Collection("appointments").InsertOne(ctx, apt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(c, http.StatusConflict, "slot already booked")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	// Fee record only; gateway integration is out of scope.
	payment := models.Payment{
		ID:            primitive.NewObjectID(),
		AppointmentID: apt.ID,
		PatientID:     uid,
		Amount:        doctor.ConsultationFee,
		Currency:      "USD",
		Status:        models.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := h.DB.Collection("payments").InsertOne(ctx, payment); err != nil {
		log.Error().Err(err).Str("appointment_id", apt.ID.Hex()).Msg("failed to record payment")
	} else {
		apt.PaymentID = &payment.ID
		_, _ = h.DB.Collection("appointments").UpdateByID(ctx, apt.ID,
			bson.M{"$set": bson.M{"paymentId": payment.ID}})
	}

	h.NotificationSvc.Notify(ctx, doctor.UserID, models.NotificationAppointment,
		"New appointment request",
		fmt.Sprintf("%s requested %s at %s", patient.Name, req.Date, req.Time))

	respondData(c, http.StatusCreated, apt)
}

// ListAppointments returns every appointment where the caller is either
// party, newest date/time first.
func (h *Handler) ListAppointments(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	filter := bson.M{"$or": []bson.M{{"patientId": uid}, {"doctorId": uid}}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})

	cursor, err := h.DB.Collection("appointments").Find(c.Request.Context(), filter, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve appointments")
		return
	}
	defer cursor.Close(c.Request.Context())

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(c.Request.Context(), &appointments); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to decode appointments")
		return
	}

	respondData(c, http.StatusOK, appointments)
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// UpdateAppointmentStatus moves an appointment along the guarded
// transition graph. Cancelling releases the slot by unsetting slotKey.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}

	aptID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid appointment id")
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	var apt models.Appointment
	if err := h.DB.Collection("appointments").FindOne(ctx, bson.M{"_id": aptID}).Decode(&apt); err != nil {
		respondError(c, http.StatusNotFound, "appointment not found")
		return
	}

	if apt.PatientID != uid && apt.DoctorID != uid {
		respondError(c, http.StatusForbidden, "not a participant of this appointment")
		return
	}

	if !models.CanTransition(apt.Status, req.Status) {
		respondError(c, http.StatusConflict,
			fmt.Sprintf("cannot transition appointment from %s to %s", apt.Status, req.Status))
		return
	}

	update := bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now().UTC()}}
	if req.Status == models.AppointmentCancelled {
		update["$unset"] = bson.M{"slotKey": ""}
	}

	if _, err := h.DB.Collection("appointments").UpdateByID(ctx, aptID, update); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	apt.Status = req.Status

	// Tell the other party.
	other := apt.PatientID
	if uid == apt.PatientID {
		other = apt.DoctorID
	}
	h.NotificationSvc.Notify(ctx, other, models.NotificationAppointment,
		"Appointment "+req.Status,
		fmt.Sprintf("Appointment on %s at %s is now %s", apt.Date.Format("2006-01-02"), apt.Time, req.Status))

	respondData(c, http.StatusOK, apt)
}
