// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/classmentor/internal/app/features/admin"
	authgooglefeature "github.com/dalemusser/classmentor/internal/app/features/authgoogle"
	chatfeature "github.com/dalemusser/classmentor/internal/app/features/chat"
	createpairfeature "github.com/dalemusser/classmentor/internal/app/features/createpair"
	dashboardfeature "github.com/dalemusser/classmentor/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/classmentor/internal/app/features/errors"
	healthfeature "github.com/dalemusser/classmentor/internal/app/features/health"
	homefeature "github.com/dalemusser/classmentor/internal/app/features/home"
	loginfeature "github.com/dalemusser/classmentor/internal/app/features/login"
	logoutfeature "github.com/dalemusser/classmentor/internal/app/features/logout"
	profilefeature "github.com/dalemusser/classmentor/internal/app/features/profile"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. ClassMentor initializes the template
// engine, applies session middleware, and mounts feature routers for all
// application areas: home, login/signup, Google sign-in, dashboards, the
// admin console, pairing, chat, and profiles.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes and disabled accounts take effect
	// immediately instead of at next sign-in.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Local file storage for chat attachments and avatars.
	files, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("file storage init failed", zap.Error(err))
		return nil, err
	}

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Uploaded files (chat attachments, avatars) served from local storage.
	r.Handle(appCfg.StorageLocalURL+"/*",
		http.StripPrefix(appCfg.StorageLocalURL+"/", http.FileServer(http.Dir(appCfg.StorageLocalPath))))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Super bird admin console and pairing screen
	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	createPairHandler := createpairfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/createpair", createpairfeature.Routes(createPairHandler, sessionMgr))

	// Pair chat (page, websocket, attachments)
	hub := chatfeature.NewHub()
	chatHandler := chatfeature.NewHandler(deps.MongoDatabase, hub, files, errLog, logger)
	r.Mount("/chat", chatfeature.Routes(chatHandler, sessionMgr))

	// Self-service profile
	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, files, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	return r, nil
}
