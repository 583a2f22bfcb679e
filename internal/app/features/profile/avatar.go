// internal/app/features/profile/avatar.go
package profile

import (
	"context"
	"net/http"
	"path"
	"strings"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	"github.com/dalemusser/classmentor/internal/app/system/authz"
	"github.com/dalemusser/classmentor/internal/app/system/limits"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleAvatarUpload processes a profile picture upload. Only common
// image types are accepted and the size cap is enforced server-side.
func (h *Handler) HandleAvatarUpload(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxAvatarBytes+limits.MaxFormSize)
	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse avatar form failed", err,
			"The upload was too large or malformed.", "/profile")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "missing avatar file", err,
			"Choose an image to upload.", "/profile")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedAvatarType(contentType) {
		h.ErrLog.LogBadRequest(w, r, "unsupported avatar type", nil,
			"Avatars must be a PNG, JPEG, GIF, or WebP image.", "/profile")
		return
	}
	if header.Size > limits.MaxAvatarBytes {
		h.ErrLog.LogBadRequest(w, r, "avatar too large", nil,
			"That image is too large.", "/profile")
		return
	}

	storagePath := "avatars/" + uid.Hex() + "/" + uuid.NewString() + path.Ext(header.Filename)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err = h.Files.Put(ctx, storagePath, file, &storage.PutOptions{ContentType: contentType})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store avatar failed", err,
			"Could not store the image.", "/profile")
		return
	}

	if err := h.Users.UpdateAvatar(ctx, uid, storagePath); err != nil {
		h.ErrLog.LogServerError(w, r, "update avatar path failed", err,
			"Could not save your avatar.", "/profile")
		return
	}

	h.Log.Info("avatar updated",
		zap.String("user_id", uid.Hex()),
		zap.Int64("bytes", header.Size))

	http.Redirect(w, r, "/profile?success=avatar", http.StatusSeeOther)
}

func allowedAvatarType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
