package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile extends a User with demographic and contact details.
// One profile per user, enforced by a unique index on userId.
type Profile struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Phone             string             `bson:"phone" json:"phone"`
	Role              string             `bson:"role" json:"role"`
	Location          string             `bson:"location" json:"location"`
	Age               int                `bson:"age" json:"age"`
	Gender            string             `bson:"gender" json:"gender"`
	MedicalConditions []string           `bson:"medicalConditions" json:"medicalConditions"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
