// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/classmentor/internal/app/system/limits"
	"github.com/dalemusser/classmentor/internal/app/system/normalize"
	"github.com/dalemusser/classmentor/internal/app/system/sanitize"
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
	return &Store{c: db.Collection("reports")}
}

var (
	// ErrNotPending is returned when reviewing a report that already left
	// the pending state.
	ErrNotPending = errors.New("report is not pending")

	errEmptyReason   = errors.New("report has no reason")
	errReasonTooLong = errors.New("report reason exceeds the length limit")
)

// Create files a pending report against a pair.
func (s *Store) Create(ctx context.Context, pairID primitive.ObjectID, reason, reporterEmail string) (models.Report, error) {
	reason = sanitize.Text(reason)
	if reason == "" {
		return models.Report{}, errEmptyReason
	}
	if len(reason) > limits.MaxReasonChars {
		return models.Report{}, errReasonTooLong
	}

	now := time.Now().UTC()
	r := models.Report{
		ID:            primitive.NewObjectID(),
		PairID:        pairID,
		Reason:        reason,
		ReporterEmail: normalize.Email(reporterEmail),
		Status:        models.ReportPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// MarkReviewed transitions a report from pending to reviewed. The filter
// includes the pending status so the transition is one way and a repeat
// review attempt fails instead of silently rewriting updated_at.
func (s *Store) MarkReviewed(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ReportPending},
		bson.M{"$set": bson.M{
			"status":     models.ReportReviewed,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}

// List returns all reports, newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status string) ([]models.Report, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = normalize.Status(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.Report
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetByID loads a report by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CountPending returns how many reports still await review.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.ReportPending})
}
