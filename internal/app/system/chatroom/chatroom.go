// Package chatroom derives chat room identifiers from participant IDs.
//
// A room ID is a pure function of the two participant user IDs: the two
// hex IDs sorted lexicographically and joined with an underscore. Both
// participants always compute the same room ID with no allocation step,
// and the room (and its history) exists independently of any Pair
// document. That is intentional: deleting a pairing does not delete its
// chat history.
package chatroom

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomID returns the canonical room identifier for two participants.
// The argument order does not matter.
func RoomID(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return ah + "_" + bh
}

// Participants splits a room ID back into its two member IDs. It returns
// ok=false if the room ID is malformed.
func Participants(roomID string) (a, b primitive.ObjectID, ok bool) {
	left, right, found := strings.Cut(roomID, "_")
	if !found {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	a, err := primitive.ObjectIDFromHex(left)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	b, err = primitive.ObjectIDFromHex(right)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return a, b, true
}

// IsParticipant reports whether uid is one of the room's two members.
func IsParticipant(roomID string, uid primitive.ObjectID) bool {
	a, b, ok := Participants(roomID)
	if !ok {
		return false
	}
	return uid == a || uid == b
}
