// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the super-bird console routes, mounted at /admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleSuperBird))

	r.Get("/", h.ServeConsole)
	r.Post("/pairs", h.HandlePairCreate)
	r.Post("/pairs/{id}", h.HandlePairUpdate)
	r.Post("/pairs/{id}/delete", h.HandlePairDelete)
	r.Post("/reports/{id}/reviewed", h.HandleReportReviewed)
	r.Post("/users/{id}/status", h.HandleUserStatus)

	return r
}
