// internal/app/features/admin/users.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleUserStatus handles POST /admin/users/{id}/status. Disabling an
// account locks the user out on their next request; the session
// middleware re-fetches the user document every time.
func (h *Handler) HandleUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return
	}

	status := r.PostFormValue("status")
	if status != models.StatusActive && status != models.StatusDisabled {
		http.Redirect(w, r, "/admin?error=bad_input", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateStatus(ctx, id, status); err != nil {
		h.Log.Error("update user status failed", zap.Error(err))
		http.Redirect(w, r, "/admin?error=internal", http.StatusSeeOther)
		return
	}

	h.Log.Info("user status updated",
		zap.String("user_id", id.Hex()),
		zap.String("status", status))

	http.Redirect(w, r, "/admin?ok=status", http.StatusSeeOther)
}
