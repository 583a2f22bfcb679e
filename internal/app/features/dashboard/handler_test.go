package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/classmentor/internal/app/features/dashboard"
	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/classmentor/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*dashboard.Handler, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := dashboard.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, db, testutil.NewFixtures(t, db)
}

func TestServeDashboard_SuperBirdRedirectsToAdmin(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = testutil.WithUser(req, testutil.SuperBirdUser())
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("Location: got %q, want /admin", loc)
	}
}

func TestHandleProgressPost_AssignedBird(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fx.CreateBird(ctx, "Assigned Bird", "bird@example.com")
	buddy := fx.CreateBuddy(ctx, "Paired Buddy", "buddy@example.com")
	fx.CreatePair(ctx, bird.ID, buddy.ID)

	form := url.Values{
		"subject": {"Math", "Math"},
		"unit":    {"Algebra", "Geometry"},
		"percent": {"50", "70"},
	}
	req := testutil.NewForm("/dashboard/progress/"+buddy.ID.Hex(),
		testutil.AsTestUser(bird.ID, bird.FullName, bird.Email, models.RoleBird), form)
	req = testutil.WithChiURLParam(req, "buddyID", buddy.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleProgressPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	got, err := userstore.New(db).GetByID(ctx, buddy.ID)
	if err != nil {
		t.Fatalf("load buddy failed: %v", err)
	}
	if got.Progress["Math"]["Algebra"] != 50 || got.Progress["Math"]["Geometry"] != 70 {
		t.Errorf("progress not saved: %+v", got.Progress)
	}
}

func TestHandleProgressPost_OtherBirdForbidden(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	assigned := fx.CreateBird(ctx, "Assigned Bird", "assigned@example.com")
	other := fx.CreateBird(ctx, "Other Bird", "other@example.com")
	buddy := fx.CreateBuddy(ctx, "Paired Buddy", "buddy@example.com")
	fx.CreatePair(ctx, assigned.ID, buddy.ID)

	form := url.Values{
		"subject": {"Math"},
		"unit":    {"Algebra"},
		"percent": {"50"},
	}
	req := testutil.NewForm("/dashboard/progress/"+buddy.ID.Hex(),
		testutil.AsTestUser(other.ID, other.FullName, other.Email, models.RoleBird), form)
	req = testutil.WithChiURLParam(req, "buddyID", buddy.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }() // template render may panic in tests
		h.HandleProgressPost(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("unassigned bird should not be able to write progress")
	}
	got, err := userstore.New(db).GetByID(ctx, buddy.ID)
	if err != nil {
		t.Fatalf("load buddy failed: %v", err)
	}
	if len(got.Progress) != 0 {
		t.Errorf("progress written by unassigned bird: %+v", got.Progress)
	}
}

func TestHandleProgressPost_RejectsOffStepPercent(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fx.CreateBird(ctx, "Assigned Bird", "bird@example.com")
	buddy := fx.CreateBuddy(ctx, "Paired Buddy", "buddy@example.com")
	fx.CreatePair(ctx, bird.ID, buddy.ID)

	form := url.Values{
		"subject": {"Math"},
		"unit":    {"Algebra"},
		"percent": {"55"},
	}
	req := testutil.NewForm("/dashboard/progress/"+buddy.ID.Hex(),
		testutil.AsTestUser(bird.ID, bird.FullName, bird.Email, models.RoleBird), form)
	req = testutil.WithChiURLParam(req, "buddyID", buddy.ID.Hex())
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleProgressPost(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("55 is not a valid step-of-10 percentage")
	}
	got, err := userstore.New(db).GetByID(ctx, buddy.ID)
	if err != nil {
		t.Fatalf("load buddy failed: %v", err)
	}
	if len(got.Progress) != 0 {
		t.Errorf("invalid progress was saved: %+v", got.Progress)
	}
}

func TestHandleReportPost_ParticipantOnly(t *testing.T) {
	h, db, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bird := fx.CreateBird(ctx, "Bird", "bird@example.com")
	buddy := fx.CreateBuddy(ctx, "Buddy", "buddy@example.com")
	outsider := fx.CreateBuddy(ctx, "Outsider", "outsider@example.com")
	pair := fx.CreatePair(ctx, bird.ID, buddy.ID)

	form := url.Values{
		"pair_id": {pair.ID.Hex()},
		"reason":  {"We never meet."},
	}

	// An outsider cannot report a pairing they are not part of.
	req := testutil.NewForm("/dashboard/report",
		testutil.AsTestUser(outsider.ID, outsider.FullName, outsider.Email, models.RoleBuddy), form)
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		h.HandleReportPost(rec, req)
	}()
	if rec.Code == http.StatusSeeOther {
		t.Error("outsider should not be able to file a report")
	}

	// The buddy can.
	req = testutil.NewForm("/dashboard/report",
		testutil.AsTestUser(buddy.ID, buddy.FullName, buddy.Email, models.RoleBuddy), form)
	rec = httptest.NewRecorder()
	h.HandleReportPost(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}

	reports, err := reportstore.New(db).List(ctx, models.ReportPending)
	if err != nil {
		t.Fatalf("list reports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports: got %d, want 1", len(reports))
	}
	if reports[0].ReporterEmail != "buddy@example.com" {
		t.Errorf("reporter: got %q", reports[0].ReporterEmail)
	}
}
