// internal/app/store/pairs/pairstore.go
package pairstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/classmentor/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("pairs"),
		users: db.Collection("users"),
	}
}

var (
	// ErrAlreadyPaired is returned when the buddy already has an active pair.
	ErrAlreadyPaired = errors.New("buddy is already paired with a bird")
	// ErrBirdFull is returned when the bird is at its buddy capacity.
	ErrBirdFull = errors.New("bird already mentors the maximum number of buddies")
	// ErrPairNotFound is returned by lookups that match no pair.
	ErrPairNotFound = errors.New("pair not found")

	errNotABird  = errors.New("bird_id does not refer to a bird")
	errNotABuddy = errors.New("buddy_id does not refer to a buddy")
)

// Create links a bird and a buddy after validating both roles and the
// bird's capacity. The one-pair-per-buddy rule is enforced by the unique
// index on buddy_id, so a concurrent create for the same buddy cannot
// slip past the check.
func (s *Store) Create(ctx context.Context, birdID, buddyID primitive.ObjectID) (models.Pair, error) {
	if err := s.requireRole(ctx, birdID, models.RoleBird, errNotABird); err != nil {
		return models.Pair{}, err
	}
	if err := s.requireRole(ctx, buddyID, models.RoleBuddy, errNotABuddy); err != nil {
		return models.Pair{}, err
	}

	n, err := s.CountByBird(ctx, birdID)
	if err != nil {
		return models.Pair{}, err
	}
	if n >= models.MaxBuddiesPerBird {
		return models.Pair{}, ErrBirdFull
	}

	pair := models.Pair{
		ID:        primitive.NewObjectID(),
		BirdID:    birdID,
		BuddyID:   buddyID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, pair); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Pair{}, ErrAlreadyPaired
		}
		return models.Pair{}, err
	}
	return pair, nil
}

func (s *Store) requireRole(ctx context.Context, id primitive.ObjectID, role string, roleErr error) error {
	err := s.users.FindOne(ctx, bson.M{"_id": id, "role": role}).Err()
	if err == mongo.ErrNoDocuments {
		return roleErr
	}
	return err
}

// GetByID loads a pair by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Pair, error) {
	var p models.Pair
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPairNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByBuddy returns the buddy's active pair, or ErrPairNotFound.
func (s *Store) GetByBuddy(ctx context.Context, buddyID primitive.ObjectID) (*models.Pair, error) {
	var p models.Pair
	if err := s.c.FindOne(ctx, bson.M{"buddy_id": buddyID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPairNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByBird returns the bird's active pairs, oldest first.
func (s *Store) ListByBird(ctx context.Context, birdID primitive.ObjectID) ([]models.Pair, error) {
	return s.list(ctx, bson.M{"bird_id": birdID})
}

// List returns all pairs, oldest first.
func (s *Store) List(ctx context.Context) ([]models.Pair, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Pair, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pairs []models.Pair
	if err := cur.All(ctx, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// CountByBird returns the number of active pairs for a bird.
func (s *Store) CountByBird(ctx context.Context, birdID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"bird_id": birdID})
}

// Update reassigns a pair to a different bird and/or buddy. It applies the
// same role and capacity checks as Create, and the unique buddy index
// still rejects a buddy who is active in another pair. Chat history is
// keyed by participant IDs, not by the pair document, so it is unaffected.
func (s *Store) Update(ctx context.Context, id, birdID, buddyID primitive.ObjectID) error {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.requireRole(ctx, birdID, models.RoleBird, errNotABird); err != nil {
		return err
	}
	if err := s.requireRole(ctx, buddyID, models.RoleBuddy, errNotABuddy); err != nil {
		return err
	}

	if birdID != cur.BirdID {
		n, err := s.CountByBird(ctx, birdID)
		if err != nil {
			return err
		}
		if n >= models.MaxBuddiesPerBird {
			return ErrBirdFull
		}
	}

	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"bird_id":  birdID,
		"buddy_id": buddyID,
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyPaired
		}
		return err
	}
	return nil
}

// Delete removes a pair. Messages in the pair's chat room are left in
// place so history survives unpairing.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPairNotFound
	}
	return nil
}

// RemoveBuddy deletes the buddy's active pair, freeing the buddy for
// reassignment.
func (s *Store) RemoveBuddy(ctx context.Context, buddyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"buddy_id": buddyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPairNotFound
	}
	return nil
}

// AddBuddy links one more buddy to a bird. Same checks as Create.
func (s *Store) AddBuddy(ctx context.Context, birdID, buddyID primitive.ObjectID) (models.Pair, error) {
	return s.Create(ctx, birdID, buddyID)
}

// Unpair deletes the exact (bird, buddy) pair, not just any pair the
// buddy holds.
func (s *Store) Unpair(ctx context.Context, birdID, buddyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"bird_id": birdID, "buddy_id": buddyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPairNotFound
	}
	return nil
}

// CountPerBird aggregates active pair counts for a set of birds in one
// query, for capacity displays on the pairing screens.
func (s *Store) CountPerBird(ctx context.Context, birdIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	result := make(map[primitive.ObjectID]int)
	if len(birdIDs) == 0 {
		return result, nil
	}

	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"bird_id": bson.M{"$in": birdIDs}}},
		{"$group": bson.M{"_id": "$bird_id", "n": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		result[row.ID] = row.N
	}
	return result, cur.Err()
}
