// internal/app/features/dashboard/buddy.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	pairstore "github.com/dalemusser/classmentor/internal/app/store/pairs"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/app/system/chatroom"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type buddyDashboardData struct {
	viewdata.BaseVM

	// HasBird is false until a super bird pairs this buddy.
	HasBird      bool
	PairID       string
	BirdName     string
	ChatURL      string
	MessageCount int64

	Progress      []progressRow
	Notifications []models.Notification
	UnreadCount   int64
}

// ServeBuddy renders the buddy dashboard: the buddy's bird, a chat
// link, a read-only progress view, and notifications.
func (h *Handler) ServeBuddy(w http.ResponseWriter, r *http.Request, user *auth.SessionUser) {
	buddyID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bad user id in session", err,
			"Could not load your dashboard.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := buddyDashboardData{
		BaseVM: viewdata.NewBaseVM(r, "My Bird", "/"),
	}

	pair, err := h.Pairs.GetByBuddy(ctx, buddyID)
	switch {
	case err == pairstore.ErrPairNotFound:
		// Not paired yet; the dashboard still shows progress and
		// notifications.
	case err != nil:
		h.ErrLog.LogServerError(w, r, "look up pair for buddy failed", err,
			"Could not load your dashboard.", "/")
		return
	default:
		bird, err := h.Users.GetBirdByID(ctx, pair.BirdID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "look up bird failed", err,
				"Could not load your dashboard.", "/")
			return
		}
		data.HasBird = true
		data.PairID = pair.ID.Hex()
		data.BirdName = bird.FullName
		roomID := chatroom.RoomID(pair.BirdID, buddyID)
		data.ChatURL = "/chat/" + roomID
		if count, err := h.Messages.CountByRoom(ctx, roomID); err == nil {
			data.MessageCount = count
		} else {
			h.Log.Warn("count chat messages failed",
				zap.String("room_id", roomID), zap.Error(err))
		}
	}

	me, err := h.Users.GetByID(ctx, buddyID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load buddy failed", err,
			"Could not load your dashboard.", "/")
		return
	}
	data.Progress = progressRows(me.Progress)

	notifications, err := h.Notifications.ListByUser(ctx, buddyID, 20)
	if err != nil {
		h.Log.Warn("list notifications failed", zap.Error(err))
	}
	data.Notifications = notifications

	if unread, err := h.Notifications.CountUnread(ctx, buddyID); err == nil {
		data.UnreadCount = unread
	}

	templates.Render(w, r, "dashboard_buddy", data)
}

// HandleNotificationRead handles POST /dashboard/notifications/{id}/read.
func (h *Handler) HandleNotificationRead(w http.ResponseWriter, r *http.Request) {
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

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad notification id", err,
			"That notification does not exist.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Owner-scoped: marking someone else's notification is a no-op.
	if err := h.Notifications.MarkRead(ctx, userID, id); err != nil {
		h.ErrLog.LogServerError(w, r, "mark notification read failed", err,
			"Could not update the notification.", "/dashboard")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleNotificationsReadAll handles POST /dashboard/notifications/read-all.
func (h *Handler) HandleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, userID); err != nil {
		h.ErrLog.LogServerError(w, r, "mark all notifications read failed", err,
			"Could not update notifications.", "/dashboard")
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
