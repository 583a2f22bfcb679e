// Package pairqueries provides read-side joins over the pairs and users
// collections for the admin console and the pairing screens.
package pairqueries

import (
	"context"

	"github.com/dalemusser/classmentor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PairView is a pair joined with both participants.
type PairView struct {
	Pair  models.Pair `bson:"pair" json:"pair"`
	Bird  models.User `bson:"bird" json:"bird"`
	Buddy models.User `bson:"buddy" json:"buddy"`
}

// ListPairViews returns every pair with its bird and buddy resolved,
// sorted by the bird's folded name then the buddy's.
func ListPairViews(ctx context.Context, db *mongo.Database) ([]PairView, error) {
	return listPairViews(ctx, db, bson.M{})
}

// ListPairViewsByBird returns the joined pairs for one bird.
func ListPairViewsByBird(ctx context.Context, db *mongo.Database, birdID primitive.ObjectID) ([]PairView, error) {
	return listPairViews(ctx, db, bson.M{"bird_id": birdID})
}

func listPairViews(ctx context.Context, db *mongo.Database, match bson.M) ([]PairView, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "bird_id",
			"foreignField": "_id",
			"as":           "bird",
		}}},
		bson.D{{Key: "$unwind", Value: "$bird"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "buddy_id",
			"foreignField": "_id",
			"as":           "buddy",
		}}},
		bson.D{{Key: "$unwind", Value: "$buddy"}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "bird.full_name_ci", Value: 1},
			{Key: "buddy.full_name_ci", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"pair": bson.M{
				"_id":        "$_id",
				"bird_id":    "$bird_id",
				"buddy_id":   "$buddy_id",
				"created_at": "$created_at",
			},
			"bird":  "$bird",
			"buddy": "$buddy",
		}}},
	}

	cur, err := db.Collection("pairs").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PairView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportView is a report joined with its pair's participants. Bird and
// Buddy may be zero values when the pair was deleted after filing.
type ReportView struct {
	Report models.Report `bson:"report" json:"report"`
	Bird   models.User   `bson:"bird" json:"bird"`
	Buddy  models.User   `bson:"buddy" json:"buddy"`
}

// ListReportViews returns reports newest first with the reported pair's
// participants resolved where the pair still exists.
func ListReportViews(ctx context.Context, db *mongo.Database) ([]ReportView, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "pairs",
			"localField":   "pair_id",
			"foreignField": "_id",
			"as":           "pair",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$pair", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "pair.bird_id",
			"foreignField": "_id",
			"as":           "bird",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$bird", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "pair.buddy_id",
			"foreignField": "_id",
			"as":           "buddy",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$buddy", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$project", Value: bson.M{
			"report": bson.M{
				"_id":            "$_id",
				"pair_id":        "$pair_id",
				"reason":         "$reason",
				"reporter_email": "$reporter_email",
				"status":         "$status",
				"created_at":     "$created_at",
				"updated_at":     "$updated_at",
			},
			"bird":  "$bird",
			"buddy": "$buddy",
		}}},
	}

	cur, err := db.Collection("reports").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []ReportView
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnpairedBuddies returns active buddies who have no pair, sorted by
// folded name. This backs the pairing screen's candidate list.
func ListUnpairedBuddies(ctx context.Context, db *mongo.Database) ([]models.User, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"role": models.RoleBuddy, "status": models.StatusActive}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "pairs",
			"localField":   "_id",
			"foreignField": "buddy_id",
			"as":           "pair",
		}}},
		bson.D{{Key: "$match", Value: bson.M{"pair": bson.M{"$size": 0}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.M{"pair": 0}}},
	}

	cur, err := db.Collection("users").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
