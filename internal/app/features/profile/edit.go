// internal/app/features/profile/edit.go
package profile

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/authutil"
	"github.com/dalemusser/classmentor/internal/app/system/authz"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"go.uber.org/zap"
)

// HandleUpdateProfile processes the name/course/year form. Course and
// year only apply to buddies; for other roles they are ignored.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err,
			"Invalid form data.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err,
			"Could not load your profile.", "/")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	if fullName == "" {
		h.renderWithError(w, r, user, "Name cannot be empty.")
		return
	}

	upd := userstore.ProfileUpdate{FullName: fullName}
	if user.Role == models.RoleBuddy {
		upd.Course = strings.TrimSpace(r.FormValue("course"))
		upd.Year = strings.TrimSpace(r.FormValue("year"))
		if upd.Course == "" || upd.Year == "" {
			h.renderWithError(w, r, user, "Buddies must have a course and year.")
			return
		}
	} else {
		upd.Course = user.Course
		upd.Year = user.Year
	}

	if err := h.Users.UpdateProfile(ctx, uid, upd); err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err,
			"Failed to save your profile.", "/profile")
		return
	}

	h.Log.Info("profile updated", zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, "/profile?success=profile", http.StatusSeeOther)
}

// HandleChangePassword processes the password change form.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err,
			"Invalid form data.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err,
			"Could not load your profile.", "/")
		return
	}

	if user.PasswordHash == nil {
		h.renderWithError(w, r, user, "This account signs in with Google; there is no password to change.")
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirmPassword := r.FormValue("confirm_password")

	if !authutil.CheckPassword(currentPassword, *user.PasswordHash) {
		h.renderWithError(w, r, user, "Current password is incorrect.")
		return
	}
	if err := authutil.ValidatePassword(newPassword); err != nil {
		h.renderWithError(w, r, user, err.Error())
		return
	}
	if newPassword != confirmPassword {
		h.renderWithError(w, r, user, "New passwords do not match.")
		return
	}
	if authutil.CheckPassword(newPassword, *user.PasswordHash) {
		h.renderWithError(w, r, user, "New password cannot be the same as your current password.")
		return
	}

	hash, err := authutil.HashPassword(newPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err,
			"Failed to update password.", "/profile")
		return
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", err,
			"Failed to update password.", "/profile")
		return
	}

	h.Log.Info("password changed", zap.String("user_id", uid.Hex()))

	http.Redirect(w, r, "/profile?success=password", http.StatusSeeOther)
}
