// internal/app/features/dashboard/report.go
package dashboard

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleReportPost handles POST /dashboard/report: either side of a
// pairing can flag it for super-bird review. The reporter must be the
// pair's bird or buddy.
func (h *Handler) HandleReportPost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse report form failed", err,
			"Could not read the report.", "/dashboard")
		return
	}

	pairID, err := primitive.ObjectIDFromHex(r.PostFormValue("pair_id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad pair id on report", err,
			"That pairing does not exist.", "/dashboard")
		return
	}

	reason := strings.TrimSpace(r.PostFormValue("reason"))
	if reason == "" {
		h.ErrLog.LogBadRequest(w, r, "empty report reason", nil,
			"Please describe the problem.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pair, err := h.Pairs.GetByID(ctx, pairID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "report on unknown pair", err,
			"That pairing does not exist.", "/dashboard")
		return
	}
	if pair.BirdID != userID && pair.BuddyID != userID {
		uierrors.RenderForbidden(w, r, "Only the pair's bird or buddy can report it.", "/dashboard")
		return
	}

	report, err := h.Reports.Create(ctx, pairID, reason, user.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create report failed", err,
			"Could not file the report.", "/dashboard")
		return
	}

	h.Log.Info("pair reported",
		zap.String("report_id", report.ID.Hex()),
		zap.String("pair_id", pairID.Hex()),
		zap.String("reporter", user.Email))

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
