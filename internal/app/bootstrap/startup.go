// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/classmentor/internal/app/resources"
	"github.com/dalemusser/classmentor/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/classmentor/internal/app/store/users"
	"github.com/dalemusser/classmentor/internal/app/system/authutil"
	"github.com/dalemusser/classmentor/internal/app/system/normalize"
	"github.com/dalemusser/classmentor/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates and makes sure the configured super bird account
// exists, so a fresh deployment always has an administrator.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.SuperBirdEmail != "" {
		if err := ensureSuperBird(ctx, deps, appCfg.SuperBirdEmail, appCfg.SuperBirdPassword, logger); err != nil {
			return fmt.Errorf("ensure super bird: %w", err)
		}
	}

	sweepOAuthStates(ctx, deps, logger)

	return nil
}

// sweepOAuthStates clears leftover expired OAuth state tokens. The TTL
// index removes them eventually; the sweep keeps the collection tidy
// across restarts without blocking startup on failure.
func sweepOAuthStates(ctx context.Context, deps DBDeps, logger *zap.Logger) {
	removed, err := oauthstate.New(deps.MongoDatabase).CleanupExpired(ctx)
	if err != nil {
		logger.Warn("oauth state sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		logger.Info("removed expired oauth states", zap.Int64("count", removed))
	}
}

// ensureSuperBird creates the super bird account if no user has the given
// email, or promotes the existing user to super bird. An already-promoted
// account is left untouched, so restarting is safe.
func ensureSuperBird(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	email = normalize.Email(email)
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleSuperBird {
			return nil
		}
		_, err := deps.MongoDatabase.Collection("users").UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{
				"role":       models.RoleSuperBird,
				"updated_at": time.Now().UTC(),
			}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to super bird",
			zap.String("email", email))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		u := models.User{
			FullName: "Super Bird",
			Email:    email,
			Role:     models.RoleSuperBird,
			Status:   models.StatusActive,
		}
		if password != "" {
			hash, err := authutil.HashPassword(password)
			if err != nil {
				return err
			}
			u.PasswordHash = &hash
			u.AuthMethod = models.AuthPassword
		} else {
			// No password configured: the account signs in with Google.
			u.AuthMethod = models.AuthGoogle
		}
		if _, err := users.Create(ctx, u); err != nil {
			return err
		}
		logger.Info("created super bird account",
			zap.String("email", email))
		return nil

	default:
		return err
	}
}
