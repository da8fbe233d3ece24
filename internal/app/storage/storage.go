// Package storage holds the voice-message blob store. Recordings live at a
// path namespaced by session, timestamp, and sender so nothing collides and
// a session's audio can be enumerated by prefix.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// VoiceMessagePath returns the object key for a voice recording:
// voice/{sessionID}/{unixMillis}-{senderID}.{ext}. ext matches the recorded
// audio container format ("webm", "ogg", ...).
func VoiceMessagePath(sessionID primitive.ObjectID, at time.Time, senderID primitive.ObjectID, ext string) string {
	return fmt.Sprintf("voice/%s/%d-%s.%s", sessionID.Hex(), at.UnixMilli(), senderID.Hex(), ext)
}

// Config selects and configures a backend.
type Config struct {
	Type string // "local" | "gcs" | "minio"

	// local
	LocalPath string

	// gcs
	GCSBucket          string
	GCSProjectID       string
	GCSCredentialsFile string

	// minio / s3-compatible
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// NewFromConfig constructs the configured backend.
func NewFromConfig(ctx context.Context, cfg Config) (ObjectStorage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocal(cfg.LocalPath)
	case "gcs":
		return NewGCS(ctx, cfg)
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
