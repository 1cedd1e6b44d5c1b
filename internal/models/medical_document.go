package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MedicalDocument is a metadata record pointing at an externally stored
// file attached to a patient's record.
type MedicalDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	FileName  string             `bson:"fileName" json:"fileName"`
	FileURL   string             `bson:"fileUrl" json:"fileUrl"`
	DocType   string             `bson:"docType" json:"docType"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
