// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the dashboard routes, mounted at /dashboard.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeDashboard)
	r.Post("/progress/{buddyID}", h.HandleProgressPost)
	r.Post("/report", h.HandleReportPost)
	r.Post("/notifications/{id}/read", h.HandleNotificationRead)
	r.Post("/notifications/read-all", h.HandleNotificationsReadAll)

	return r
}
