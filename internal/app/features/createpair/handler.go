// internal/app/features/createpair/handler.go
package createpair

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	notificationstore "github.com/dalemusser/classmentor/internal/app/store/notifications"
	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	"github.com/dalemusser/classmentor/internal/app/store/queries/pairqueries"
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

// Handler serves the dedicated pairing screen for super birds.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users         *userstore.Store
	Pairs         *pairstore.Store
	Notifications *notificationstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Pairs:         pairstore.New(db),
		Notifications: notificationstore.New(db),
	}
}

// birdOption is one selectable mentor with their remaining capacity.
type birdOption struct {
	models.User
	BuddyCount int
	AtCapacity bool
}

type pageData struct {
	viewdata.BaseVM

	Birds           []birdOption
	UnpairedBuddies []models.User

	Alert string
	Error string
}

// ServePage handles GET /createpair.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Create Pairing", "/admin"),
	}
	if query.Get(r, "ok") == "paired" {
		data.Alert = "Pairing created."
	}
	switch query.Get(r, "error") {
	case "already_paired":
		data.Error = "That buddy already has a bird."
	case "bird_full":
		data.Error = "That bird already mentors the maximum number of buddies."
	case "bad_input":
		data.Error = "The submitted form was invalid."
	case "internal":
		data.Error = "Something went wrong. Please try again."
	}

	birds, err := h.Users.ListByRole(ctx, models.RoleBird)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list birds failed", err,
			"Could not load the pairing screen.", "/admin")
		return
	}
	birdIDs := make([]primitive.ObjectID, len(birds))
	for i, b := range birds {
		birdIDs[i] = b.ID
	}
	counts, err := h.Pairs.CountPerBird(ctx, birdIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pairs per bird failed", err,
			"Could not load the pairing screen.", "/admin")
		return
	}
	data.Birds = make([]birdOption, len(birds))
	for i, b := range birds {
		n := counts[b.ID]
		data.Birds[i] = birdOption{User: b, BuddyCount: n, AtCapacity: n >= models.MaxBuddiesPerBird}
	}

	data.UnpairedBuddies, err = pairqueries.ListUnpairedBuddies(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list unpaired buddies failed", err,
			"Could not load the pairing screen.", "/admin")
		return
	}

	templates.Render(w, r, "createpair", data)
}

// HandleCreate handles POST /createpair. On success the buddy gets a
// dashboard notification naming their new bird.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/createpair?error=bad_input", http.StatusSeeOther)
		return
	}
	birdID, err := primitive.ObjectIDFromHex(r.PostFormValue("bird_id"))
	if err != nil {
		http.Redirect(w, r, "/createpair?error=bad_input", http.StatusSeeOther)
		return
	}
	buddyID, err := primitive.ObjectIDFromHex(r.PostFormValue("buddy_id"))
	if err != nil {
		http.Redirect(w, r, "/createpair?error=bad_input", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pair, err := h.Pairs.Create(ctx, birdID, buddyID)
	switch {
	case errors.Is(err, pairstore.ErrAlreadyPaired):
		http.Redirect(w, r, "/createpair?error=already_paired", http.StatusSeeOther)
		return
	case errors.Is(err, pairstore.ErrBirdFull):
		http.Redirect(w, r, "/createpair?error=bird_full", http.StatusSeeOther)
		return
	case err != nil:
		h.Log.Error("create pair failed", zap.Error(err))
		http.Redirect(w, r, "/createpair?error=internal", http.StatusSeeOther)
		return
	}

	if bird, err := h.Users.GetBirdByID(ctx, birdID); err == nil {
		if _, err := h.Notifications.Insert(ctx, buddyID, "You have been paired with bird "+bird.FullName+"."); err != nil {
			h.Log.Warn("insert pairing notification failed", zap.Error(err))
		}
	} else {
		h.Log.Warn("load bird for pairing notification failed", zap.Error(err))
	}

	h.Log.Info("pair created",
		zap.String("pair_id", pair.ID.Hex()),
		zap.String("bird_id", birdID.Hex()),
		zap.String("buddy_id", buddyID.Hex()))

	http.Redirect(w, r, "/createpair?ok=paired", http.StatusSeeOther)
}
