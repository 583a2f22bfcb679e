// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message kinds. Exactly one payload field is populated and the kind
// always matches it (enforced by the message store on append).
const (
	MessageText  = "text"
	MessageImage = "image"
	MessageVideo = "video"
)

// Message is one entry in a chat room's append-only log. Messages are
// immutable once written; ordering is by created_at ascending.
//
// RoomID is derived from the two participant IDs (see system/chatroom),
// not from a Pair document, so history outlives pair deletion.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID      string             `bson:"room_id" json:"room_id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderEmail string             `bson:"sender_email" json:"sender_email"`
	Kind        string             `bson:"kind" json:"kind"` // text | image | video
	Text        string             `bson:"text,omitempty" json:"text,omitempty"`
	// AttachmentPath is the storage path of an image/video payload.
	AttachmentPath string    `bson:"attachment_path,omitempty" json:"attachment_path,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
