package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doctor is the professional-facing record. It references exactly one
// User (the doctor's login identity) via UserID.
type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Name            string             `bson:"name" json:"name"`
	Specialization  string             `bson:"specialization" json:"specialization"`
	City            string             `bson:"city" json:"city"`
	Hospital        string             `bson:"hospital" json:"hospital"`
	Rating          float64            `bson:"rating" json:"rating"`
	ReviewCount     int                `bson:"reviewCount" json:"reviewCount"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	Latitude        float64            `bson:"latitude" json:"latitude"`
	Longitude       float64            `bson:"longitude" json:"longitude"`
	AvailableSlots  []string           `bson:"availableSlots" json:"availableSlots"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
