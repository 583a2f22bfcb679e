// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/classmentor/internal/app/system/limits"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

var (
	errBadKind       = errors.New(`kind must be "text"|"image"|"video"`)
	errEmptyText     = errors.New("text message has no text")
	errTextTooLong   = errors.New("text message exceeds the length limit")
	errNoAttachment  = errors.New("image/video message has no attachment path")
	errMixedPayload  = errors.New("message carries both text and an attachment")
	errMissingRoom   = errors.New("message has no room id")
	errMissingSender = errors.New("message has no sender")
)

// Append validates and inserts one message. The payload must match the
// kind: text messages carry text only, image and video messages carry an
// attachment path only. The server assigns the timestamp; client clocks
// are never trusted for ordering.
func (s *Store) Append(ctx context.Context, m models.Message) (models.Message, error) {
	if m.RoomID == "" {
		return models.Message{}, errMissingRoom
	}
	if m.SenderID.IsZero() {
		return models.Message{}, errMissingSender
	}

	switch m.Kind {
	case models.MessageText:
		if m.Text == "" {
			return models.Message{}, errEmptyText
		}
		if len(m.Text) > limits.MaxMessageChars {
			return models.Message{}, errTextTooLong
		}
		if m.AttachmentPath != "" {
			return models.Message{}, errMixedPayload
		}
	case models.MessageImage, models.MessageVideo:
		if m.AttachmentPath == "" {
			return models.Message{}, errNoAttachment
		}
		if m.Text != "" {
			return models.Message{}, errMixedPayload
		}
	default:
		return models.Message{}, errBadKind
	}

	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListByRoom returns the room's full message log, oldest first.
func (s *Store) ListByRoom(ctx context.Context, roomID string) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// CountByRoom returns the number of messages in a room.
func (s *Store) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"room_id": roomID})
}
