package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

type staticFetcher struct {
	user *SessionUser
}

func (f *staticFetcher) FetchUser(ctx context.Context, userID string) *SessionUser {
	return f.user
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := NewSessionManager("", "s", "", false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignInThenLoad(t *testing.T) {
	sm := newManager(t)
	sm.SetUserFetcher(&staticFetcher{user: &SessionUser{
		ID:    "abc",
		Name:  "Robin",
		Email: "robin@example.com",
		Role:  "bird",
	}})

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, "abc"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}

	// Replay the cookie through LoadSessionUser.
	var got *SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("no user in context after sign-in")
	}
	if got.Role != "bird" || got.Name != "Robin" {
		t.Errorf("unexpected user in context: %+v", got)
	}
}

func TestLoadSessionUser_FetcherNil(t *testing.T) {
	sm := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, "abc"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	called := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := CurrentUser(r); ok {
			t.Error("expected no user when fetcher returns nothing")
		}
	}))

	req2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req2)

	if !called {
		t.Fatal("next handler not called")
	}
}

func TestRequireSignedIn_RedirectsHTML(t *testing.T) {
	sm := newManager(t)

	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for signed-out request")
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fadmin" {
		t.Errorf("Location: got %q", loc)
	}
}

func TestRequireSignedIn_API401(t *testing.T) {
	sm := newManager(t)

	h := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/admin", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newManager(t)
	mw := sm.RequireRole("superbird")

	var ran bool
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ran = true }))

	// Wrong role → 403 for API callers.
	req := WithTestUser(httptest.NewRequest("GET", "/admin", nil), &SessionUser{ID: "x", Role: "buddy"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ran {
		t.Error("handler ran for wrong role")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	// Matching role (case-insensitive) → handler runs.
	req = WithTestUser(httptest.NewRequest("GET", "/admin", nil), &SessionUser{ID: "x", Role: "SuperBird"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !ran {
		t.Error("handler did not run for allowed role")
	}
}

func TestRequireRole_HTMXRedirect(t *testing.T) {
	sm := newManager(t)
	mw := sm.RequireRole("superbird")
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := WithTestUser(httptest.NewRequest("GET", "/admin", nil), &SessionUser{ID: "x", Role: "buddy"})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("HX-Redirect") != "/forbidden" {
		t.Errorf("HX-Redirect: got %q, want /forbidden", rec.Header().Get("HX-Redirect"))
	}
}
