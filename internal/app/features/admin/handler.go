// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	notificationstore "github.com/dalemusser/classmentor/internal/app/store/notifications"
	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	"github.com/dalemusser/classmentor/internal/app/store/queries/pairqueries"
	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the super-bird console: every user, pairing, and
// report in the program, with pair management and report review.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users         *userstore.Store
	Pairs         *pairstore.Store
	Reports       *reportstore.Store
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Pairs:         pairstore.New(db),
		Reports:       reportstore.New(db),
		Notifications: notificationstore.New(db),
	}
}

// birdRow is one mentor on the console, with their current load.
type birdRow struct {
	models.User
	BuddyCount int
	AtCapacity bool
}

type consoleData struct {
	viewdata.BaseVM

	Birds           []birdRow
	Buddies         []models.User
	UnpairedBuddies []models.User
	Pairs           []pairqueries.PairView
	PendingReports  []pairqueries.ReportView
	ReviewedReports []pairqueries.ReportView
	PendingCount    int64

	Alert string
	Error string
}

// ServeConsole handles GET /admin. Every mutation redirects back here,
// so the console always renders from a full re-fetch.
func (h *Handler) ServeConsole(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data := consoleData{
		BaseVM: viewdata.NewBaseVM(r, "Program Console", "/"),
		Alert:  alertText(query.Get(r, "ok")),
		Error:  errorText(query.Get(r, "error")),
	}

	birds, err := h.Users.ListByRole(ctx, models.RoleBird)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list birds failed", err,
			"Could not load the console.", "/")
		return
	}
	buddies, err := h.Users.ListByRole(ctx, models.RoleBuddy)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list buddies failed", err,
			"Could not load the console.", "/")
		return
	}
	data.Buddies = buddies

	birdIDs := make([]primitive.ObjectID, len(birds))
	for i, b := range birds {
		birdIDs[i] = b.ID
	}
	counts, err := h.Pairs.CountPerBird(ctx, birdIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pairs per bird failed", err,
			"Could not load the console.", "/")
		return
	}
	data.Birds = make([]birdRow, len(birds))
	for i, b := range birds {
		n := counts[b.ID]
		data.Birds[i] = birdRow{User: b, BuddyCount: n, AtCapacity: n >= models.MaxBuddiesPerBird}
	}

	data.Pairs, err = pairqueries.ListPairViews(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pair views failed", err,
			"Could not load the console.", "/")
		return
	}
	data.UnpairedBuddies, err = pairqueries.ListUnpairedBuddies(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list unpaired buddies failed", err,
			"Could not load the console.", "/")
		return
	}

	reports, err := pairqueries.ListReportViews(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err,
			"Could not load the console.", "/")
		return
	}
	for _, rep := range reports {
		if rep.Report.Status == models.ReportPending {
			data.PendingReports = append(data.PendingReports, rep)
		} else {
			data.ReviewedReports = append(data.ReviewedReports, rep)
		}
	}
	data.PendingCount = int64(len(data.PendingReports))

	templates.Render(w, r, "admin_console", data)
}

// alertText maps an ok= query flag to a console banner.
func alertText(code string) string {
	switch code {
	case "paired":
		return "Pairing created."
	case "updated":
		return "Pairing updated."
	case "deleted":
		return "Pairing deleted."
	case "reviewed":
		return "Report marked as reviewed."
	case "status":
		return "Account status updated."
	default:
		return ""
	}
}

// errorText maps an error= query flag to a console alert.
func errorText(code string) string {
	switch code {
	case "already_paired":
		return "That buddy already has a bird."
	case "bird_full":
		return "That bird already mentors the maximum number of buddies."
	case "not_pending":
		return "That report has already been reviewed."
	case "bad_input":
		return "The submitted form was invalid."
	case "internal":
		return "Something went wrong. Please try again."
	default:
		return ""
	}
}
