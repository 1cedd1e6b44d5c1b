package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booking between a patient User and a doctor User.
// SlotKey is present only while the appointment blocks its slot
// (pending/confirmed); a partial unique index on it makes double-booking
// a duplicate-key error instead of a read-then-write race.
type Appointment struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID   primitive.ObjectID  `bson:"patientId" json:"patientId"`
	DoctorID    primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	PatientName string              `bson:"patientName" json:"patientName"`
	DoctorName  string              `bson:"doctorName" json:"doctorName"`
	Date        time.Time           `bson:"date" json:"date"` // midnight UTC, day granularity
	Time        string              `bson:"time" json:"time"`  // "HH:MM" label
	Status      string              `bson:"status" json:"status"`
	Symptoms    string              `bson:"symptoms" json:"symptoms"`
	Notes       string              `bson:"notes" json:"notes"`
	PaymentID   *primitive.ObjectID `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	SlotKey     string              `bson:"slotKey,omitempty" json:"-"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SlotKey builds the uniqueness key for an active booking. The time label
// is canonicalized to zero-padded "HH:MM" so spelling variants of the same
// slot ("9:00" vs "09:00") cannot slip past the unique index.
func SlotKey(doctorUserID primitive.ObjectID, date time.Time, timeLabel string) string {
	if t, err := time.Parse("15:04", timeLabel); err == nil {
		timeLabel = t.Format("15:04")
	}
	return fmt.Sprintf("%s|%s|%s", doctorUserID.Hex(), date.Format("2006-01-02"), timeLabel)
}

var appointmentTransitions = map[string][]string{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransition reports whether an appointment may move from one status to
// another. Completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
