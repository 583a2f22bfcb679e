// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the profile routes, mounted at /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeProfile)
	r.Post("/", h.HandleUpdateProfile)
	r.Post("/password", h.HandleChangePassword)
	r.Post("/avatar", h.HandleAvatarUpload)

	return r
}
