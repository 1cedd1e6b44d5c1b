package handlers

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthkonnect/healthkonnect-api/internal/models"
	"github.com/healthkonnect/healthkonnect-api/internal/services"
)

const doctorListCacheKey = "doctors:all"

// ListDoctors returns every doctor record. Results are cached briefly;
// admin writes invalidate the cache.
func (h *Handler) ListDoctors(c *gin.Context) {
	if cached, ok := h.Cache.Get(doctorListCacheKey); ok {
		respondData(c, http.StatusOK, cached)
		return
	}

	doctors, err := h.findDoctors(c, bson.M{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve doctors")
		return
	}

	h.Cache.SetDefault(doctorListCacheKey, doctors)
	respondData(c, http.StatusOK, doctors)
}

// DoctorsByCity matches city case-insensitively as a substring.
func (h *Handler) DoctorsByCity(c *gin.Context) {
	city := c.Param("city")
	filter := bson.M{"city": primitive.Regex{Pattern: regexp.QuoteMeta(city), Options: "i"}}

	doctors, err := h.findDoctors(c, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve doctors")
		return
	}

	respondData(c, http.StatusOK, doctors)
}

func (h *Handler) findDoctors(c *gin.Context, filter bson.M) ([]models.Doctor, error) {
	cursor, err := h.DB.Collection("doctors").Find(c.Request.Context(), filter,
		options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c.Request.Context())

	doctors := make([]models.Doctor, 0)
	if err := cursor.All(c.Request.Context(), &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// DoctorDaySlots returns the booked and bookable time labels for a
// doctor on a given date. The result is a snapshot; the create path holds
// the real guard via the slot-key unique index.
func (h *Handler) DoctorDaySlots(c *gin.Context) {
	doctorID, err := primitive.ObjectIDFromHex(c.Param("doctorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid doctor id")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.UTC)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	var doctor models.Doctor
	err = h.DB.Collection("doctors").FindOne(c.Request.Context(), bson.M{"_id": doctorID}).Decode(&doctor)
	if err != nil {
		respondError(c, http.StatusNotFound, "doctor not found")
		return
	}

	booked, err := h.bookedLabels(c, doctor.UserID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve appointments")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"date":      day.Format("2006-01-02"),
		"booked":    booked,
		"available": services.AvailableSlots(services.OpeningTime, services.ClosingTime, booked),
	})
}

// bookedLabels collects the time labels of pending/confirmed appointments
// for a doctor user on one calendar day. Cancelled and completed
// appointments do not block slots.
func (h *Handler) bookedLabels(c *gin.Context, doctorUserID primitive.ObjectID, day time.Time) ([]string, error) {
	filter := bson.M{
		"doctorId": doctorUserID,
		"date":     bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)},
		"status":   bson.M{"$in": []string{models.AppointmentPending, models.AppointmentConfirmed}},
	}

	cursor, err := h.DB.Collection("appointments").Find(c.Request.Context(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c.Request.Context())

	var appointments []models.Appointment
	if err := cursor.All(c.Request.Context(), &appointments); err != nil {
		return nil, err
	}

	booked := make([]string, 0, len(appointments))
	for _, apt := range appointments {
		booked = append(booked, apt.Time)
	}
	return booked, nil
}
