package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionDocument is the MongoDB schema for one stored form submission.
// Documents are append-only: nothing in the system updates or deletes them.
type SubmissionDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	Kind          string             `bson:"kind"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Phone         string             `bson:"phone"`
	Company       string             `bson:"company"`
	Message       string             `bson:"message,omitempty"`
	Industry      string             `bson:"industry,omitempty"`
	IndustryOther string             `bson:"industryOther,omitempty"`
	Budget        string             `bson:"budget,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}
