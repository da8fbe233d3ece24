// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SisterCircle.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: SISTERCIRCLE_MONGO_URI, SISTERCIRCLE_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "sistercircle", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Google OAuth sign-in
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL of this app"},

	// Meet-link provisioning function service
	{Name: "meetfn_url", Default: "http://localhost:8090", Desc: "Base URL of the meet-link function service"},
	{Name: "meetfn_token", Default: "", Desc: "Shared bearer token for the function service"},

	// Voice message storage
	{Name: "storage_type", Default: "local", Desc: "Voice storage backend: 'local', 'gcs' or 'minio'"},
	{Name: "storage_local_path", Default: "./uploads/voice", Desc: "Local path for voice recordings"},
	{Name: "storage_gcs_bucket", Default: "", Desc: "GCS bucket for voice recordings"},
	{Name: "storage_gcs_project_id", Default: "", Desc: "GCP project for the GCS bucket"},
	{Name: "storage_gcs_credentials_file", Default: "", Desc: "Path to GCS service-account credentials"},
	{Name: "storage_minio_endpoint", Default: "", Desc: "MinIO/S3-compatible endpoint"},
	{Name: "storage_minio_access_key", Default: "", Desc: "MinIO access key"},
	{Name: "storage_minio_secret_key", Default: "", Desc: "MinIO secret key"},
	{Name: "storage_minio_bucket", Default: "sistercircle-voice", Desc: "MinIO bucket for voice recordings"},
	{Name: "storage_minio_use_ssl", Default: false, Desc: "Use TLS for the MinIO endpoint"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SISTERCIRCLE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		BaseURL: appValues.String("base_url"),

		MeetFnURL:   appValues.String("meetfn_url"),
		MeetFnToken: appValues.String("meetfn_token"),

		StorageType:        appValues.String("storage_type"),
		StorageLocalPath:   appValues.String("storage_local_path"),
		GCSBucket:          appValues.String("storage_gcs_bucket"),
		GCSProjectID:       appValues.String("storage_gcs_project_id"),
		GCSCredentialsFile: appValues.String("storage_gcs_credentials_file"),
		MinioEndpoint:      appValues.String("storage_minio_endpoint"),
		MinioAccessKey:     appValues.String("storage_minio_access_key"),
		MinioSecretKey:     appValues.String("storage_minio_secret_key"),
		MinioBucket:        appValues.String("storage_minio_bucket"),
		MinioUseSSL:        appValues.Bool("storage_minio_use_ssl"),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backends are touched.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.StorageType {
	case "", "local":
	case "gcs":
		if appCfg.GCSBucket == "" {
			return fmt.Errorf("storage_type gcs requires storage_gcs_bucket")
		}
	case "minio":
		if appCfg.MinioEndpoint == "" {
			return fmt.Errorf("storage_type minio requires storage_minio_endpoint")
		}
	default:
		return fmt.Errorf("unknown storage_type %q", appCfg.StorageType)
	}

	if appCfg.MeetFnURL == "" {
		return fmt.Errorf("meetfn_url must be set")
	}

	return nil
}
