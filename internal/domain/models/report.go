// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses. Reports only move pending -> reviewed and are never
// deleted in the app.
const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
)

// Report is a flagged-pair complaint filed against a pairing.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairID        primitive.ObjectID `bson:"pair_id" json:"pair_id"`
	Reason        string             `bson:"reason" json:"reason"`
	ReporterEmail string             `bson:"reporter_email" json:"reporter_email"`
	Status        string             `bson:"status" json:"status"` // pending | reviewed
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
