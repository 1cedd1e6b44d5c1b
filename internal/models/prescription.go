package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Medication struct {
	Name      string `bson:"name" json:"name"`
	Dosage    string `bson:"dosage" json:"dosage"`
	Frequency string `bson:"frequency" json:"frequency"`
	Duration  string `bson:"duration" json:"duration"`
}

// Prescription is a doctor-authored medication list for a patient,
// optionally tied to an appointment.
type Prescription struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PatientID     primitive.ObjectID  `bson:"patientId" json:"patientId"`
	DoctorID      primitive.ObjectID  `bson:"doctorId" json:"doctorId"`
	AppointmentID *primitive.ObjectID `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	Medications   []Medication        `bson:"medications" json:"medications"`
	Notes         string              `bson:"notes" json:"notes"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
