// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/sistercircle/sistercircle/internal/app/resources"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	// Promote the configured admin account, if it exists yet.
	if appCfg.AdminEmail != "" {
		users := userstore.New(deps.MongoDatabase)
		if err := users.PromoteAdmin(ctx, appCfg.AdminEmail); err != nil {
			logger.Warn("admin promotion failed", zap.String("email", appCfg.AdminEmail), zap.Error(err))
		}
	}

	return nil
}
