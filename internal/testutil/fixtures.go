package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/classmentor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Email:      email,
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSuperBird creates a test administrator.
func (f *Fixtures) CreateSuperBird(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleSuperBird)
}

// CreateBird creates a test mentor.
func (f *Fixtures) CreateBird(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleBird)
}

// CreateBuddy creates a test mentee with course and year filled in.
func (f *Fixtures) CreateBuddy(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Email:      email,
		AuthMethod: "password",
		Role:       models.RoleBuddy,
		Status:     "active",
		Course:     "Computer Science",
		Year:       "2",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test buddy: %v", err)
	}
	return user
}

// CreatePair links a bird and a buddy directly, bypassing store checks.
func (f *Fixtures) CreatePair(ctx context.Context, birdID, buddyID primitive.ObjectID) models.Pair {
	f.t.Helper()

	pair := models.Pair{
		ID:        primitive.NewObjectID(),
		BirdID:    birdID,
		BuddyID:   buddyID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("pairs").InsertOne(ctx, pair); err != nil {
		f.t.Fatalf("failed to create test pair: %v", err)
	}
	return pair
}

// CreateReport files a pending report against a pair.
func (f *Fixtures) CreateReport(ctx context.Context, pairID primitive.ObjectID, reason, reporterEmail string) models.Report {
	f.t.Helper()

	now := time.Now().UTC()
	report := models.Report{
		ID:            primitive.NewObjectID(),
		PairID:        pairID,
		Reason:        reason,
		ReporterEmail: reporterEmail,
		Status:        models.ReportPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("reports").InsertOne(ctx, report); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return report
}

// CreateMessage appends a text message to a room at the given time.
func (f *Fixtures) CreateMessage(ctx context.Context, roomID string, senderID primitive.ObjectID, text string, at time.Time) models.Message {
	f.t.Helper()

	msg := models.Message{
		ID:          primitive.NewObjectID(),
		RoomID:      roomID,
		SenderID:    senderID,
		SenderEmail: "sender@example.com",
		Kind:        models.MessageText,
		Text:        text,
		CreatedAt:   at,
	}

	if _, err := f.db.Collection("messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}
