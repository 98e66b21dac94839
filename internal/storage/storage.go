package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/doclave/doclave-api/internal/config"
)

// ErrNotExist is returned by Get and Delete when the key is absent
var ErrNotExist = errors.New("object does not exist")

// ObjectStorage is the capability used by file upload and download flows.
// The backend is chosen once at startup and handed to whoever needs file I/O;
// nothing in the codebase reaches for a package-level client.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Backend names accepted in STORAGE_BACKEND
const (
	BackendS3     = "s3"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// New selects and constructs the configured backend
func New(cfg *config.Config) (ObjectStorage, error) {
	switch cfg.StorageBackend {
	case BackendS3:
		return NewS3Storage(cfg)
	case BackendLocal:
		return NewLocalStorage(cfg.StoragePath)
	case BackendMemory:
		return NewMemoryStorage(), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

// ValidContentTypes returns allowed MIME types for uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/jpg":       true,
		"image/png":       true,
	}
}

// IsValidContentType checks if the content type is allowed
func IsValidContentType(contentType string) bool {
	return ValidContentTypes()[contentType]
}
