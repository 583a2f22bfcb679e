// internal/app/features/createpair/routes.go
package createpair

import (
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes returns the pairing screen routes, mounted at /createpair.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleSuperBird))

	r.Get("/", h.ServePage)
	r.Post("/", h.HandleCreate)

	return r
}
