// Package blob stores post thumbnails in a pluggable object backend.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound indicates a requested object is missing.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey indicates a key outside the accepted alphabet.
var ErrInvalidKey = errors.New("invalid blob key")

// Store persists opaque objects by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrNotFound for missing keys.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFS   = "fs"
	BackendS3   = "s3"
	BackendBolt = "bolt"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string `env:"BLOB_BACKEND" envDefault:"fs"`
	Dir      string `env:"BLOB_DIR" envDefault:"data/upload/post"`
	BoltPath string `env:"BLOB_BOLT_PATH" envDefault:"data/thumbnails.bolt"`
	S3       S3Config
}

// Open builds the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFS:
		return OpenFS(cfg.Dir)
	case BackendBolt:
		return OpenBolt(cfg.BoltPath)
	case BackendS3:
		return OpenS3(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// ValidKey reports whether key is safe to use as a file name and object
// key: 1 to 64 characters of lower-case letters, digits, '-' or '_'.
func ValidKey(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func checkKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
