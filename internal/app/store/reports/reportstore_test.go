package reportstore_test

import (
	"errors"
	"testing"

	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/classmentor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pairID := primitive.NewObjectID()
	report, err := store.Create(ctx, pairID, "  Buddy never responds <script>alert(1)</script>  ", "Bird@Example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if report.Status != models.ReportPending {
		t.Errorf("Status: got %q, want pending", report.Status)
	}
	if report.ReporterEmail != "bird@example.com" {
		t.Errorf("ReporterEmail not normalized: %q", report.ReporterEmail)
	}
	if report.Reason != "Buddy never responds" {
		t.Errorf("Reason not sanitized: %q", report.Reason)
	}
}

func TestStore_Create_EmptyReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, primitive.NewObjectID(), "   ", "a@b.com"); err == nil {
		t.Fatal("expected error for empty reason")
	}
}

func TestStore_MarkReviewed_OneWay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	report, err := store.Create(ctx, primitive.NewObjectID(), "reason", "a@b.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkReviewed(ctx, report.ID); err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}

	loaded, err := store.GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if loaded.Status != models.ReportReviewed {
		t.Errorf("Status: got %q, want reviewed", loaded.Status)
	}

	// Reviewing again is rejected, there is no path back to pending.
	if err := store.MarkReviewed(ctx, report.ID); !errors.Is(err, reportstore.ErrNotPending) {
		t.Errorf("second MarkReviewed: expected ErrNotPending, got %v", err)
	}
}

func TestStore_List_ByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := reportstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r1, err := store.Create(ctx, primitive.NewObjectID(), "first", "a@b.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, primitive.NewObjectID(), "second", "a@b.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.MarkReviewed(ctx, r1.ID); err != nil {
		t.Fatalf("MarkReviewed failed: %v", err)
	}

	pending, err := store.List(ctx, models.ReportPending)
	if err != nil {
		t.Fatalf("List(pending) failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Reason != "second" {
		t.Errorf("pending list wrong: %+v", pending)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List(all) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 reports, got %d", len(all))
	}

	n, err := store.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountPending: got %d, want 1", n)
	}
}
