// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	adminfeature "github.com/sistercircle/sistercircle/internal/app/features/admin"
	authgooglefeature "github.com/sistercircle/sistercircle/internal/app/features/authgoogle"
	errorsfeature "github.com/sistercircle/sistercircle/internal/app/features/errors"
	forumfeature "github.com/sistercircle/sistercircle/internal/app/features/forum"
	healthfeature "github.com/sistercircle/sistercircle/internal/app/features/health"
	homefeature "github.com/sistercircle/sistercircle/internal/app/features/home"
	loginfeature "github.com/sistercircle/sistercircle/internal/app/features/login"
	logoutfeature "github.com/sistercircle/sistercircle/internal/app/features/logout"
	mentorsfeature "github.com/sistercircle/sistercircle/internal/app/features/mentors"
	profilefeature "github.com/sistercircle/sistercircle/internal/app/features/profile"
	registerfeature "github.com/sistercircle/sistercircle/internal/app/features/register"
	sessionsfeature "github.com/sistercircle/sistercircle/internal/app/features/sessions"
	"github.com/sistercircle/sistercircle/internal/app/storage"
	"github.com/sistercircle/sistercircle/internal/app/store/forumposts"
	"github.com/sistercircle/sistercircle/internal/app/store/sessions"
	"github.com/sistercircle/sistercircle/internal/app/store/users"
	"github.com/sistercircle/sistercircle/internal/app/system/auth"
	"github.com/sistercircle/sistercircle/internal/app/workflow/sessionrequest"
	"github.com/sistercircle/sistercircle/internal/meetlink"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. It initializes sessions and templates, builds the
// stores and the session-request workflow, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Stores.
	users := userstore.New(deps.MongoDatabase)
	sessions := sessionstore.New(deps.MongoDatabase)
	posts := forumstore.New(deps.MongoDatabase)

	// Voice message storage backend.
	voice, err := storage.NewFromConfig(context.Background(), storage.Config{
		Type:               appCfg.StorageType,
		LocalPath:          appCfg.StorageLocalPath,
		GCSBucket:          appCfg.GCSBucket,
		GCSProjectID:       appCfg.GCSProjectID,
		GCSCredentialsFile: appCfg.GCSCredentialsFile,
		MinioEndpoint:      appCfg.MinioEndpoint,
		MinioAccessKey:     appCfg.MinioAccessKey,
		MinioSecretKey:     appCfg.MinioSecretKey,
		MinioBucket:        appCfg.MinioBucket,
		MinioUseSSL:        appCfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error("voice storage init failed", zap.Error(err))
		return nil, err
	}
	if err := voice.EnsureBucket(context.Background()); err != nil {
		logger.Error("voice storage bucket setup failed", zap.Error(err))
		return nil, err
	}

	// Session-request workflow over the provisioning function service.
	meetClient := meetlink.NewClient(appCfg.MeetFnURL, appCfg.MeetFnToken, nil)
	requests := sessionrequest.New(sessions, meetClient, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Static assets with pre-compressed file support (gzip/brotli).
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages.
	r.Mount("/", homefeature.Routes(homefeature.NewHandler(users, logger)))

	// Authentication.
	googleHandler := authgooglefeature.NewHandler(users, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(users, googleHandler.Enabled(), logger)))
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(users, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(logger)))

	// Error pages.
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Member areas.
	r.Mount("/mentors", mentorsfeature.Routes(mentorsfeature.NewHandler(users, sessions, requests, logger)))
	r.Mount("/sessions", sessionsfeature.Routes(sessionsfeature.NewHandler(sessions, voice, logger)))
	r.Mount("/forum", forumfeature.Routes(forumfeature.NewHandler(posts, logger)))
	r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(users, logger)))

	// Moderation.
	r.Mount("/admin", adminfeature.Routes(adminfeature.NewHandler(users, posts, logger)))

	return r, nil
}
