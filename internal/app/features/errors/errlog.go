// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler errors and renders a user-facing error page in
// one call, so handlers stay one-line on their failure paths.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a warning for a malformed request and renders an
// error page with the user-facing message. userMsg is shown to the user;
// msg and err go to the log only.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.WriteHeader(http.StatusBadRequest)
	e.renderErrorPage(w, r, "Invalid request", userMsg, backURL)
}

// LogServerError logs an internal error and renders an error page with
// the user-facing message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	w.WriteHeader(http.StatusInternalServerError)
	e.renderErrorPage(w, r, "Something went wrong", userMsg, backURL)
}

// HTMXLogServerError logs an internal error and responds in a way HTMX
// can handle: a redirect header to the error page rather than a swapped
// fragment.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", backURL)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	e.renderErrorPage(w, r, "Something went wrong", userMsg, backURL)
}

func (e *ErrorLogger) renderErrorPage(w http.ResponseWriter, r *http.Request, title, userMsg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	templates.Render(w, r, "error_page", pageData{
		Title:   title,
		Message: userMsg,
		BackURL: backURL,
	})
}
