// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request timeouts. AppConfig is where
// everything specific to ClassMentor lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: classmentor-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage for chat attachments and avatars
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving stored files (e.g., "/files")

	// Base URL for OAuth callbacks (e.g., "http://localhost:3000")
	BaseURL string

	// Google OAuth configuration (blank disables the Google sign-in option)
	GoogleClientID     string
	GoogleClientSecret string

	// Super bird bootstrap: the account created or promoted on startup so
	// a fresh deployment always has an administrator.
	SuperBirdEmail    string
	SuperBirdPassword string
}
