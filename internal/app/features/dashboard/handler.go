// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	messagestore "github.com/dalemusser/classmentor/internal/app/store/messages"
	notificationstore "github.com/dalemusser/classmentor/internal/app/store/notifications"
	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	reportstore "github.com/dalemusser/classmentor/internal/app/store/reports"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the role dashboards. Super birds are sent to the admin
// console; birds and buddies get their own pages here.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users         *userstore.Store
	Pairs         *pairstore.Store
	Reports       *reportstore.Store
	Notifications *notificationstore.Store
	Messages      *messagestore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Pairs:         pairstore.New(db),
		Reports:       reportstore.New(db),
		Notifications: notificationstore.New(db),
		Messages:      messagestore.New(db),
	}
}

// ServeDashboard handles GET /dashboard and dispatches by role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	switch user.Role {
	case models.RoleSuperBird:
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	case models.RoleBird:
		h.ServeBird(w, r, user)
	case models.RoleBuddy:
		h.ServeBuddy(w, r, user)
	default:
		uierrors.RenderForbidden(w, r, "There is no dashboard for your account.", "/")
	}
}
