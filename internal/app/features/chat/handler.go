// internal/app/features/chat/handler.go
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	messagestore "github.com/dalemusser/classmentor/internal/app/store/messages"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/classmentor/internal/app/system/chatroom"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves chat rooms: the room page, the websocket feed, and
// attachment uploads.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Hub    *Hub
	Files  storage.Store

	Users    *userstore.Store
	Messages *messagestore.Store
}

func NewHandler(db *mongo.Database, hub *Hub, files storage.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Hub:      hub,
		Files:    files,
		Users:    userstore.New(db),
		Messages: messagestore.New(db),
	}
}

// roomAccess resolves the current user and checks they may enter the
// room: one of the two participants, or a superbird.
func (h *Handler) roomAccess(r *http.Request) (roomID string, userID primitive.ObjectID, user *auth.SessionUser, ok bool) {
	user, found := auth.CurrentUser(r)
	if !found {
		return "", primitive.NilObjectID, nil, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "", primitive.NilObjectID, nil, false
	}

	roomID = chi.URLParam(r, "roomID")
	if _, _, valid := chatroom.Participants(roomID); !valid {
		return "", primitive.NilObjectID, nil, false
	}
	if !chatroom.IsParticipant(roomID, userID) && user.Role != models.RoleSuperBird {
		return "", primitive.NilObjectID, nil, false
	}
	return roomID, userID, user, true
}

type roomPageData struct {
	viewdata.BaseVM

	RoomID      string
	PartnerName string
	Messages    []messageView
}

// ServeRoom handles GET /chat/{roomID}.
func (h *Handler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	roomID, userID, _, ok := h.roomAccess(r)
	if !ok {
		uierrors.RenderForbidden(w, r, "You are not part of this chat.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	messages, err := h.Messages.ListByRoom(ctx, roomID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load chat history failed", err,
			"Could not load the chat.", "/dashboard")
		return
	}

	data := roomPageData{
		BaseVM:   viewdata.NewBaseVM(r, "Chat", "/dashboard"),
		RoomID:   roomID,
		Messages: h.messageViews(messages),
	}

	// The partner is the other participant; for a superbird reading a
	// room they are not in, show both names.
	a, b, _ := chatroom.Participants(roomID)
	partnerID := a
	if partnerID == userID {
		partnerID = b
	}
	if partner, err := h.Users.GetByID(ctx, partnerID); err == nil {
		data.PartnerName = partner.FullName
		if userID != a && userID != b {
			if first, err := h.Users.GetByID(ctx, a); err == nil {
				data.PartnerName = first.FullName + " and " + partner.FullName
			}
		}
	}

	templates.Render(w, r, "chat_room", data)
}

// messageView is the wire/template shape of one chat message.
type messageView struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	SenderEmail   string    `json:"sender_email"`
	Kind          string    `json:"kind"`
	Text          string    `json:"text,omitempty"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) messageViews(messages []models.Message) []messageView {
	views := make([]messageView, len(messages))
	for i, m := range messages {
		views[i] = messageView{
			ID:          m.ID.Hex(),
			SenderID:    m.SenderID.Hex(),
			SenderEmail: m.SenderEmail,
			Kind:        m.Kind,
			Text:        m.Text,
			CreatedAt:   m.CreatedAt,
		}
		if m.AttachmentPath != "" {
			views[i].AttachmentURL = h.Files.URL(m.AttachmentPath)
		}
	}
	return views
}

// broadcastSnapshot loads the room's full ordered history and pushes it
// to every subscriber. Every append triggers this; clients always see a
// consistent, complete room state.
func (h *Handler) broadcastSnapshot(ctx context.Context, roomID string) {
	messages, err := h.Messages.ListByRoom(ctx, roomID)
	if err != nil {
		h.Log.Warn("load room snapshot failed",
			zap.String("room_id", roomID), zap.Error(err))
		return
	}
	payload, err := json.Marshal(h.messageViews(messages))
	if err != nil {
		h.Log.Warn("marshal room snapshot failed", zap.Error(err))
		return
	}
	h.Hub.Broadcast(roomID, payload)
}
