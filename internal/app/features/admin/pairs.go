// internal/app/features/admin/pairs.go
package admin

import (
	"context"
	"errors"
	"net/http"

	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandlePairCreate handles POST /admin/pairs. Pairing errors come back
// as console alerts, not error pages, so the super bird can retry.
func (h *Handler) HandlePairCreate(w http.ResponseWriter, r *http.Request) {
	birdID, buddyID, ok := h.parsePairForm(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pair, err := h.Pairs.Create(ctx, birdID, buddyID)
	if err != nil {
		h.redirectPairError(w, r, "create pair failed", err)
		return
	}

	h.notifyBuddyPaired(ctx, pair.BirdID, pair.BuddyID)

	h.Log.Info("pair created",
		zap.String("pair_id", pair.ID.Hex()),
		zap.String("bird_id", birdID.Hex()),
		zap.String("buddy_id", buddyID.Hex()))

	http.Redirect(w, r, "/admin?ok=paired", http.StatusSeeOther)
}

// HandlePairUpdate handles POST /admin/pairs/{id}.
func (h *Handler) HandlePairUpdate(w http.ResponseWriter, r *http.Request) {
	pairID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return
	}
	birdID, buddyID, ok := h.parsePairForm(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Pairs.Update(ctx, pairID, birdID, buddyID); err != nil {
		h.redirectPairError(w, r, "update pair failed", err)
		return
	}

	h.Log.Info("pair updated",
		zap.String("pair_id", pairID.Hex()),
		zap.String("bird_id", birdID.Hex()),
		zap.String("buddy_id", buddyID.Hex()))

	http.Redirect(w, r, "/admin?ok=updated", http.StatusSeeOther)
}

// HandlePairDelete handles POST /admin/pairs/{id}/delete. Chat history
// for the pair's room is left untouched.
func (h *Handler) HandlePairDelete(w http.ResponseWriter, r *http.Request) {
	pairID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Pairs.Delete(ctx, pairID); err != nil {
		h.redirectPairError(w, r, "delete pair failed", err)
		return
	}

	h.Log.Info("pair deleted", zap.String("pair_id", pairID.Hex()))

	http.Redirect(w, r, "/admin?ok=deleted", http.StatusSeeOther)
}

// parsePairForm reads bird_id and buddy_id from the form. On failure it
// redirects back to the console and returns ok=false.
func (h *Handler) parsePairForm(w http.ResponseWriter, r *http.Request) (birdID, buddyID primitive.ObjectID, ok bool) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	birdID, err := primitive.ObjectIDFromHex(r.PostFormValue("bird_id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	buddyID, err = primitive.ObjectIDFromHex(r.PostFormValue("buddy_id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return birdID, buddyID, true
}

// redirectPairError maps pairing sentinel errors to console alert codes.
func (h *Handler) redirectPairError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, pairstore.ErrAlreadyPaired):
		http.Redirect(w, r, "/admin?error=already_paired", http.StatusSeeOther)
	case errors.Is(err, pairstore.ErrBirdFull):
		http.Redirect(w, r, "/admin?error=bird_full", http.StatusSeeOther)
	case errors.Is(err, pairstore.ErrPairNotFound):
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
	default:
		h.Log.Error(msg, zap.Error(err))
		http.Redirect(w, r, "/admin?error=internal", http.StatusSeeOther)
	}
}

// notifyBuddyPaired inserts a dashboard notification for a freshly
// paired buddy. Failures are logged, not surfaced; the pairing itself
// already succeeded.
func (h *Handler) notifyBuddyPaired(ctx context.Context, birdID, buddyID primitive.ObjectID) {
	bird, err := h.Users.GetBirdByID(ctx, birdID)
	if err != nil {
		h.Log.Warn("load bird for pairing notification failed", zap.Error(err))
		return
	}
	if _, err := h.Notifications.Insert(ctx, buddyID, "You have been paired with bird "+bird.FullName+"."); err != nil {
		h.Log.Warn("insert pairing notification failed", zap.Error(err))
	}
}
