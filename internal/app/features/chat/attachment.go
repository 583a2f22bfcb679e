// internal/app/features/chat/attachment.go
package chat

import (
	"context"
	"net/http"
	"path"
	"strings"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	"github.com/dalemusser/classmentor/internal/app/system/limits"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleAttachmentPost handles POST /chat/{roomID}/attachment: a
// multipart image or video upload that becomes a chat message. Size
// caps are enforced server-side regardless of what the client claims.
func (h *Handler) HandleAttachmentPost(w http.ResponseWriter, r *http.Request) {
	roomID, userID, user, ok := h.roomAccess(r)
	if !ok {
		uierrors.RenderForbidden(w, r, "You are not part of this chat.", "/dashboard")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxVideoBytes+limits.MaxFormSize)
	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse attachment form failed", err,
			"The upload was too large or malformed.", "/chat/"+roomID)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "missing attachment file", err,
			"Choose a file to send.", "/chat/"+roomID)
		return
	}
	defer file.Close()

	kind, maxBytes := attachmentKind(header.Header.Get("Content-Type"))
	if kind == "" {
		h.ErrLog.LogBadRequest(w, r, "unsupported attachment type", nil,
			"Only images and videos can be sent.", "/chat/"+roomID)
		return
	}
	if header.Size > maxBytes {
		h.ErrLog.LogBadRequest(w, r, "attachment too large", nil,
			"That file is too large.", "/chat/"+roomID)
		return
	}

	storagePath := "chat/" + roomID + "/" + uuid.NewString() + "_" + safeFilename(header.Filename)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err = h.Files.Put(ctx, storagePath, file, &storage.PutOptions{
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store attachment failed", err,
			"Could not store the file.", "/chat/"+roomID)
		return
	}

	_, err = h.Messages.Append(ctx, models.Message{
		RoomID:         roomID,
		SenderID:       userID,
		SenderEmail:    user.Email,
		Kind:           kind,
		AttachmentPath: storagePath,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "append attachment message failed", err,
			"Could not send the file.", "/chat/"+roomID)
		return
	}

	h.broadcastSnapshot(ctx, roomID)

	h.Log.Info("chat attachment sent",
		zap.String("room_id", roomID),
		zap.String("kind", kind),
		zap.Int64("bytes", header.Size))

	http.Redirect(w, r, "/chat/"+roomID, http.StatusSeeOther)
}

// attachmentKind maps a content type to a message kind and its size cap.
func attachmentKind(contentType string) (kind string, maxBytes int64) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MessageImage, limits.MaxImageBytes
	case strings.HasPrefix(contentType, "video/"):
		return models.MessageVideo, limits.MaxVideoBytes
	default:
		return "", 0
	}
}

// safeFilename strips path components and characters that have no
// business in a storage key.
func safeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
