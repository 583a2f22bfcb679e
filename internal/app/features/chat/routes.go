// internal/app/features/chat/routes.go
package chat

import (
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the chat routes, mounted at /chat.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/{roomID}", h.ServeRoom)
	r.Get("/{roomID}/ws", h.ServeWS)
	r.Post("/{roomID}/attachment", h.HandleAttachmentPost)

	return r
}
