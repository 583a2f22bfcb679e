package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/classmentor/internal/app/store/oauthstate"
	"github.com/dalemusser/classmentor/internal/app/system/authutil"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/classmentor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSuperBird_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	err := ensureSuperBird(ctx, deps, "admin@classmentor.test", "seedpassword1", testLogger())
	if err != nil {
		t.Fatalf("ensureSuperBird failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@classmentor.test"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleSuperBird {
		t.Errorf("expected role %q, got %q", models.RoleSuperBird, user.Role)
	}
	if user.Status != models.StatusActive {
		t.Errorf("expected status %q, got %q", models.StatusActive, user.Status)
	}
	if user.PasswordHash == nil || !authutil.CheckPassword("seedpassword1", *user.PasswordHash) {
		t.Error("seed password does not verify")
	}
}

func TestEnsureSuperBird_CreatesGoogleOnlyWithoutPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	err := ensureSuperBird(ctx, deps, "admin@classmentor.test", "", testLogger())
	if err != nil {
		t.Fatalf("ensureSuperBird failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@classmentor.test"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.PasswordHash != nil {
		t.Error("expected no password hash for a Google-only account")
	}
	if user.AuthMethod != models.AuthGoogle {
		t.Errorf("expected auth method %q, got %q", models.AuthGoogle, user.AuthMethod)
	}
}

func TestEnsureSuperBird_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	bird := fx.CreateBird(ctx, "Existing Bird", "existing@classmentor.test")

	deps := DBDeps{MongoDatabase: db}

	err := ensureSuperBird(ctx, deps, "existing@classmentor.test", "ignoredpassword1", testLogger())
	if err != nil {
		t.Fatalf("ensureSuperBird failed: %v", err)
	}

	var user models.User
	err = db.Collection("users").FindOne(ctx, bson.M{"_id": bird.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleSuperBird {
		t.Errorf("expected role %q, got %q", models.RoleSuperBird, user.Role)
	}
}

func TestEnsureSuperBird_AlreadySuperBird(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperBird(ctx, deps, "admin@classmentor.test", "seedpassword1", testLogger()); err != nil {
		t.Fatalf("first ensureSuperBird failed: %v", err)
	}
	// Second run is a no-op.
	if err := ensureSuperBird(ctx, deps, "admin@classmentor.test", "differentpassword1", testLogger()); err != nil {
		t.Fatalf("second ensureSuperBird failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@classmentor.test"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.PasswordHash == nil || !authutil.CheckPassword("seedpassword1", *user.PasswordHash) {
		t.Error("original seed password should be unchanged")
	}
}

func TestSweepOAuthStates_RemovesOnlyExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	states := oauthstate.New(db)
	if err := states.Save(ctx, "expired-state", "", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("save expired state failed: %v", err)
	}
	if err := states.Save(ctx, "live-state", "", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("save live state failed: %v", err)
	}

	sweepOAuthStates(ctx, DBDeps{MongoDatabase: db}, testLogger())

	count, err := db.Collection("oauth_states").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count states failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("states after sweep: got %d, want 1", count)
	}

	_, valid, err := states.Validate(ctx, "live-state")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !valid {
		t.Error("live state should survive the sweep")
	}
}
