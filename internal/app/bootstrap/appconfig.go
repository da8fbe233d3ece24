// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// timeouts); AppConfig is everything specific to SisterCircle.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth sign-in
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL of this app (OAuth redirects, absolute links)
	BaseURL string

	// Meet-link provisioning function service
	MeetFnURL   string // e.g. http://localhost:8090
	MeetFnToken string // shared bearer token

	// Voice message storage
	StorageType        string // "local" | "gcs" | "minio"
	StorageLocalPath   string
	GCSBucket          string
	GCSProjectID       string
	GCSCredentialsFile string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool

	// AdminEmail is promoted to the admin role at startup.
	AdminEmail string
}
