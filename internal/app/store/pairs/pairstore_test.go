package pairstore_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/classmentor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird One", "bird1@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy One", "buddy1@example.com")

	pair, err := store.Create(ctx, bird.ID, buddy.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if pair.BirdID != bird.ID || pair.BuddyID != buddy.ID {
		t.Errorf("pair IDs wrong: %+v", pair)
	}

	count, err := db.Collection("pairs").CountDocuments(ctx, bson.M{"buddy_id": buddy.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pair, got %d", count)
	}
}

func TestStore_Create_BuddyAlreadyPaired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird1 := fixtures.CreateBird(ctx, "Bird One", "bird1@example.com")
	bird2 := fixtures.CreateBird(ctx, "Bird Two", "bird2@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy One", "buddy1@example.com")

	if _, err := store.Create(ctx, bird1.ID, buddy.ID); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, bird2.ID, buddy.ID)
	if !errors.Is(err, pairstore.ErrAlreadyPaired) {
		t.Errorf("expected ErrAlreadyPaired, got %v", err)
	}
}

func TestStore_Create_ConcurrentSameBuddy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	buddy := fixtures.CreateBuddy(ctx, "Contested Buddy", "contested@example.com")

	const attempts = 8
	birds := make([]models.User, attempts)
	for i := range birds {
		birds[i] = fixtures.CreateBird(ctx, fmt.Sprintf("Bird %d", i), fmt.Sprintf("bird%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Create(ctx, birds[i].ID, buddy.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, pairstore.ErrAlreadyPaired) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 winning create, got %d", succeeded)
	}

	count, err := db.Collection("pairs").CountDocuments(ctx, bson.M{"buddy_id": buddy.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pair document, got %d", count)
	}
}

func TestStore_Create_BirdAtCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Busy Bird", "busy@example.com")
	for i := 0; i < models.MaxBuddiesPerBird; i++ {
		buddy := fixtures.CreateBuddy(ctx, fmt.Sprintf("Buddy %d", i), fmt.Sprintf("buddy%d@example.com", i))
		if _, err := store.Create(ctx, bird.ID, buddy.ID); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	extra := fixtures.CreateBuddy(ctx, "One Too Many", "extra@example.com")
	_, err := store.Create(ctx, bird.ID, extra.ID)
	if !errors.Is(err, pairstore.ErrBirdFull) {
		t.Errorf("expected ErrBirdFull, got %v", err)
	}

	n, err := store.CountByBird(ctx, bird.ID)
	if err != nil {
		t.Fatalf("CountByBird failed: %v", err)
	}
	if n != models.MaxBuddiesPerBird {
		t.Errorf("CountByBird: got %d, want %d", n, models.MaxBuddiesPerBird)
	}
}

func TestStore_Create_RoleValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy", "buddy@example.com")

	if _, err := store.Create(ctx, buddy.ID, buddy.ID); err == nil {
		t.Error("expected error when bird_id refers to a buddy")
	}
	if _, err := store.Create(ctx, bird.ID, bird.ID); err == nil {
		t.Error("expected error when buddy_id refers to a bird")
	}
}

func TestStore_Update_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird1 := fixtures.CreateBird(ctx, "Bird One", "bird1@example.com")
	bird2 := fixtures.CreateBird(ctx, "Bird Two", "bird2@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy", "buddy@example.com")

	pair, err := store.Create(ctx, bird1.ID, buddy.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, pair.ID, bird2.ID, buddy.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	loaded, err := store.GetByID(ctx, pair.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.BirdID != bird2.ID {
		t.Errorf("BirdID after update: got %s, want %s", loaded.BirdID.Hex(), bird2.ID.Hex())
	}
	if loaded.BuddyID != buddy.ID {
		t.Errorf("BuddyID changed unexpectedly")
	}
}

func TestStore_Update_ToPairedBuddy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird1 := fixtures.CreateBird(ctx, "Bird One", "bird1@example.com")
	bird2 := fixtures.CreateBird(ctx, "Bird Two", "bird2@example.com")
	buddy1 := fixtures.CreateBuddy(ctx, "Buddy One", "buddy1@example.com")
	buddy2 := fixtures.CreateBuddy(ctx, "Buddy Two", "buddy2@example.com")

	pair1, err := store.Create(ctx, bird1.ID, buddy1.ID)
	if err != nil {
		t.Fatalf("Create pair1 failed: %v", err)
	}
	if _, err := store.Create(ctx, bird2.ID, buddy2.ID); err != nil {
		t.Fatalf("Create pair2 failed: %v", err)
	}

	err = store.Update(ctx, pair1.ID, bird1.ID, buddy2.ID)
	if !errors.Is(err, pairstore.ErrAlreadyPaired) {
		t.Errorf("expected ErrAlreadyPaired, got %v", err)
	}
}

func TestStore_Delete_AndRepair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird1 := fixtures.CreateBird(ctx, "Bird One", "bird1@example.com")
	bird2 := fixtures.CreateBird(ctx, "Bird Two", "bird2@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy", "buddy@example.com")

	pair, err := store.Create(ctx, bird1.ID, buddy.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, pair.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// The buddy is free again and may be paired with a different bird.
	if _, err := store.Create(ctx, bird2.ID, buddy.ID); err != nil {
		t.Fatalf("re-Create after delete failed: %v", err)
	}
}

func TestStore_RemoveBuddy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	buddy := fixtures.CreateBuddy(ctx, "Buddy", "buddy@example.com")

	if _, err := store.Create(ctx, bird.ID, buddy.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.RemoveBuddy(ctx, buddy.ID); err != nil {
		t.Fatalf("RemoveBuddy failed: %v", err)
	}

	_, err := store.GetByBuddy(ctx, buddy.ID)
	if !errors.Is(err, pairstore.ErrPairNotFound) {
		t.Errorf("expected ErrPairNotFound, got %v", err)
	}

	if err := store.RemoveBuddy(ctx, buddy.ID); !errors.Is(err, pairstore.ErrPairNotFound) {
		t.Errorf("second RemoveBuddy: expected ErrPairNotFound, got %v", err)
	}
}

func TestStore_GetByBuddy_ListByBird(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := pairstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fixtures.CreateBird(ctx, "Bird", "bird@example.com")
	buddy1 := fixtures.CreateBuddy(ctx, "Buddy One", "buddy1@example.com")
	buddy2 := fixtures.CreateBuddy(ctx, "Buddy Two", "buddy2@example.com")

	if _, err := store.Create(ctx, bird.ID, buddy1.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, bird.ID, buddy2.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByBuddy(ctx, buddy1.ID)
	if err != nil {
		t.Fatalf("GetByBuddy failed: %v", err)
	}
	if got.BirdID != bird.ID {
		t.Errorf("GetByBuddy returned wrong bird")
	}

	pairs, err := store.ListByBird(ctx, bird.ID)
	if err != nil {
		t.Fatalf("ListByBird failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Errorf("ListByBird: got %d pairs, want 2", len(pairs))
	}
}
