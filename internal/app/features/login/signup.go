// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/authutil"
	"github.com/dalemusser/classmentor/internal/app/system/normalize"
	"github.com/dalemusser/classmentor/internal/app/system/timeouts"
	"github.com/dalemusser/classmentor/internal/app/system/viewdata"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type signupFormData struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	Role          string
	Course        string
	Year          string
	PasswordRules string
}

// ServeSignup handles GET /signup.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/login"),
		Role:          models.RoleBuddy,
		PasswordRules: authutil.PasswordRules(),
	})
}

// HandleSignupPost handles POST /signup. Accounts created here are birds
// or buddies only; the administrator account is seeded from config at
// startup and can never be self-selected.
func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse signup form failed", err, "Invalid form data.", "/signup")
		return
	}

	form := signupFormData{
		FullName: normalize.Name(r.FormValue("full_name")),
		Email:    normalize.Email(r.FormValue("email")),
		Role:     normalize.Role(r.FormValue("role")),
		Course:   normalize.Name(r.FormValue("course")),
		Year:     normalize.Name(r.FormValue("year")),
	}
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	fail := func(msg string) {
		form.BaseVM = viewdata.NewBaseVM(r, "Create account", "/login")
		form.Error = msg
		form.PasswordRules = authutil.PasswordRules()
		templates.Render(w, r, "signup", form)
	}

	if form.FullName == "" || form.Email == "" {
		fail("Please enter your name and email.")
		return
	}
	if form.Role != models.RoleBird && form.Role != models.RoleBuddy {
		fail("Please choose whether you are joining as a bird or a buddy.")
		return
	}
	if form.Role == models.RoleBuddy && (form.Course == "" || form.Year == "") {
		fail("Buddies must provide their course and year.")
		return
	}
	if password != confirm {
		fail("Passwords do not match.")
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		fail(err.Error())
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "A server error occurred.", "/signup")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u := models.User{
		FullName:     form.FullName,
		Email:        form.Email,
		PasswordHash: &hash,
		AuthMethod:   models.AuthPassword,
		Role:         form.Role,
	}
	if form.Role == models.RoleBuddy {
		u.Course = form.Course
		u.Year = form.Year
	}

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			fail("An account with that email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user failed", err, "A server error occurred.", "/signup")
		return
	}

	h.Log.Info("account created",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role))

	if err := h.SessionMgr.SignIn(w, r, created.ID.Hex()); err != nil {
		h.Log.Error("save session after signup failed", zap.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
