package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single chat line. Immutable once created except for the
// Delivered flag.
type Message struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SenderID      primitive.ObjectID  `bson:"senderId" json:"senderId"`
	ReceiverID    primitive.ObjectID  `bson:"receiverId" json:"receiverId"`
	Content       string              `bson:"content" json:"content"`
	Delivered     bool                `bson:"delivered" json:"delivered"`
	AppointmentID *primitive.ObjectID `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	ThreadRef     string              `bson:"threadRef,omitempty" json:"threadRef,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
