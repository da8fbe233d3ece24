package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on the local filesystem. Used in development and
// tests; path traversal in keys is rejected.
type LocalStore struct {
	root string
}

// NewLocal constructs a filesystem-backed store rooted at path.
func NewLocal(path string) (*LocalStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "./uploads/voice"
	}
	return &LocalStore{root: path}, nil
}

// EnsureBucket creates the root directory.
func (l *LocalStore) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.root, 0o755)
}

func (l *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", errors.New("empty object key")
	}
	return filepath.Join(l.root, clean), nil
}

// Put writes an object under the root directory.
func (l *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Get opens a stored object.
func (l *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes a stored object.
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Bucket returns the root directory.
func (l *LocalStore) Bucket() string {
	return l.root
}
