// internal/app/features/admin/reports.go
package admin

import (
	"context"
	"errors"
	"net/http"

	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleReportReviewed handles POST /admin/reports/{id}/reviewed.
// Reports only move pending -> reviewed; there is no way back and no
// delete.
func (h *Handler) HandleReportReviewed(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Reports.MarkReviewed(ctx, id); err != nil {
		if errors.Is(err, reportstore.ErrNotPending) {
			http.Redirect(w, r, "/admin?error=not_pending", http.StatusSeeOther)
			return
		}
		h.Log.Error("mark report reviewed failed", zap.Error(err))
		http.Redirect(w, r, "/admin?error=internal", http.StatusSeeOther)
		return
	}

	h.Log.Info("report reviewed", zap.String("report_id", id.Hex()))

	http.Redirect(w, r, "/admin?ok=reviewed", http.StatusSeeOther)
}
