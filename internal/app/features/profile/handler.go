// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/classmentor/internal/app/features/errors"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/authutil"
	"github.com/dalemusser/classmentor/internal/app/system/authz"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the self-service profile handlers.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Files  storage.Store

	Users *userstore.Store
}

// NewHandler constructs a Handler bound to the given database, file
// store, and logger.
func NewHandler(db *mongo.Database, files storage.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Files:  files,
		Users:  userstore.New(db),
	}
}

// profileData is the view model for the profile page.
type profileData struct {
	viewdata.BaseVM

	FullName   string
	Email      string
	Role       string
	AuthMethod string
	AvatarURL  string

	// Buddy-only fields.
	IsBuddy bool
	Course  string
	Year    string

	// Password section is hidden for Google-auth accounts.
	ShowPasswordSection bool
	PasswordRules       string

	Error   string
	Success string
}

// ServeProfile renders the user's profile page.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err,
			"Could not load your profile.", "/")
		return
	}

	data := h.profileView(r, user)
	switch query.Get(r, "success") {
	case "profile":
		data.Success = "Profile updated."
	case "password":
		data.Success = "Password changed successfully."
	case "avatar":
		data.Success = "Avatar updated."
	}

	templates.Render(w, r, "profile", data)
}

func (h *Handler) profileView(r *http.Request, user *models.User) profileData {
	data := profileData{
		BaseVM:              viewdata.NewBaseVM(r, "Profile", "/dashboard"),
		FullName:            user.FullName,
		Email:               user.Email,
		Role:                user.Role,
		AuthMethod:          formatAuthMethod(user.AuthMethod),
		IsBuddy:             user.Role == models.RoleBuddy,
		Course:              user.Course,
		Year:                user.Year,
		ShowPasswordSection: user.AuthMethod != models.AuthGoogle && user.PasswordHash != nil,
		PasswordRules:       authutil.PasswordRules(),
	}
	if user.AvatarPath != "" {
		data.AvatarURL = h.Files.URL(user.AvatarPath)
	}
	return data
}

func (h *Handler) renderWithError(w http.ResponseWriter, r *http.Request, user *models.User, errMsg string) {
	data := h.profileView(r, user)
	data.Error = errMsg
	templates.Render(w, r, "profile", data)
}

// formatAuthMethod returns a human-readable label for the auth method.
func formatAuthMethod(method string) string {
	switch method {
	case models.AuthGoogle:
		return "Google"
	case models.AuthPassword, "":
		return "Password"
	default:
		return method
	}
}
