// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags. A "super bird" administers the program, a "bird" mentors,
// a "buddy" is mentored.
const (
	RoleSuperBird = "superbird"
	RoleBird      = "bird"
	RoleBuddy     = "buddy"
)

// IsValidRole reports whether role is one of the three known tags.
func IsValidRole(role string) bool {
	return role == RoleSuperBird || role == RoleBird || role == RoleBuddy
}

// Account status values.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Authentication methods.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// User represents super birds, birds, and buddies.
//
// NOTE:
//   - Pairings are not embedded on User. Use the pairs collection to
//     discover who mentors whom.
//   - Progress lives on the buddy's document and is written only by the
//     buddy's assigned bird (full-map overwrite; the at-most-one-bird
//     pairing invariant makes this a single-writer field).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci,omitempty" json:"-"` // folded for case-insensitive sort
	Email        string             `bson:"email" json:"email"`
	PasswordHash *string            `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google
	Role         string             `bson:"role" json:"role"`                                   // superbird | bird | buddy
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`           // active | disabled

	// Buddy-only attributes.
	Course string `bson:"course,omitempty" json:"course,omitempty"`
	Year   string `bson:"year,omitempty" json:"year,omitempty"`

	AvatarPath string `bson:"avatar_path,omitempty" json:"avatar_path,omitempty"`

	// Progress maps subject -> unit -> percent complete (0-100, step 10).
	Progress map[string]map[string]int `bson:"progress,omitempty" json:"progress,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
