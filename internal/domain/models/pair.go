// internal/domain/models/pair.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pair is the authoritative record of an active bird/buddy mentorship.
// Exactly one document per buddy at any time (unique index on buddy_id),
// and a bird holds at most MaxBuddiesPerBird concurrent pairs.
type Pair struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BirdID    primitive.ObjectID `bson:"bird_id" json:"bird_id"`
	BuddyID   primitive.ObjectID `bson:"buddy_id" json:"buddy_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// MaxBuddiesPerBird caps how many buddies one bird may mentor at a time.
const MaxBuddiesPerBird = 5
