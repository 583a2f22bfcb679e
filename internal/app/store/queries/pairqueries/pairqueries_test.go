package pairqueries_test

import (
	"testing"

	"github.com/dalemusser/classmentor/internal/app/store/queries/pairqueries"
	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	"github.com/dalemusser/classmentor/internal/testutil"
)

func TestListPairViews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	buddy1 := fixtures.CreateBuddy(ctx, "Buddy One", "buddy1@example.com")
	buddy2 := fixtures.CreateBuddy(ctx, "Buddy Two", "buddy2@example.com")
	fixtures.CreatePair(ctx, bird.ID, buddy1.ID)
	fixtures.CreatePair(ctx, bird.ID, buddy2.ID)

	views, err := pairqueries.ListPairViews(ctx, db)
	if err != nil {
		t.Fatalf("ListPairViews failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	for _, v := range views {
		if v.Bird.ID != bird.ID {
			t.Errorf("view bird: got %s", v.Bird.FullName)
		}
		if v.Buddy.ID != buddy1.ID && v.Buddy.ID != buddy2.ID {
			t.Errorf("view buddy unexpected: %s", v.Buddy.FullName)
		}
		if v.Pair.BirdID != bird.ID {
			t.Errorf("pair doc not projected: %+v", v.Pair)
		}
	}

	byBird, err := pairqueries.ListPairViewsByBird(ctx, db, bird.ID)
	if err != nil {
		t.Fatalf("ListPairViewsByBird failed: %v", err)
	}
	if len(byBird) != 2 {
		t.Errorf("ListPairViewsByBird: got %d, want 2", len(byBird))
	}
}

func TestListUnpairedBuddies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	paired := fixtures.CreateBuddy(ctx, "Paired Buddy", "paired@example.com")
	free := fixtures.CreateBuddy(ctx, "Free Buddy", "free@example.com")
	fixtures.CreatePair(ctx, bird.ID, paired.ID)

	buddies, err := pairqueries.ListUnpairedBuddies(ctx, db)
	if err != nil {
		t.Fatalf("ListUnpairedBuddies failed: %v", err)
	}
	if len(buddies) != 1 {
		t.Fatalf("expected 1 unpaired buddy, got %d", len(buddies))
	}
	if buddies[0].ID != free.ID {
		t.Errorf("unpaired buddy: got %s", buddies[0].FullName)
	}
}

func TestListReportViews_SurvivesPairDeletion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	reports := reportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy", "buddy@example.com")
	pair := fixtures.CreatePair(ctx, bird.ID, buddy.ID)

	if _, err := reports.Create(ctx, pair.ID, "no response in two weeks", bird.Email); err != nil {
		t.Fatalf("report Create failed: %v", err)
	}

	views, err := pairqueries.ListReportViews(ctx, db)
	if err != nil {
		t.Fatalf("ListReportViews failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].Bird.ID != bird.ID || views[0].Buddy.ID != buddy.ID {
		t.Errorf("participants not resolved: %+v", views[0])
	}

	// Deleting the pair leaves the report listed, just without users.
	if _, err := db.Collection("pairs").DeleteOne(ctx, map[string]any{"_id": pair.ID}); err != nil {
		t.Fatalf("pair delete failed: %v", err)
	}
	views, err = pairqueries.ListReportViews(ctx, db)
	if err != nil {
		t.Fatalf("ListReportViews after delete failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("report disappeared with its pair")
	}
	if !views[0].Bird.ID.IsZero() {
		t.Errorf("expected zero bird after pair deletion")
	}
}
