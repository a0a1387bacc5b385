// Package imagestore persists uploaded item images on the local filesystem
// or in an S3 bucket.
package imagestore

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Store saves and removes image blobs by file name.
type Store interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) error
	Delete(ctx context.Context, name string) error
}

func getLogger() logger.Logger {
	return logger.Global().Module("imagestore")
}

// New returns the Store selected by settings.
func New(ctx context.Context, settings conf.StorageSettings) (Store, error) {
	switch strings.ToLower(settings.Type) {
	case "", TypeLocal:
		return NewLocalStore(settings.LocalPath)
	case TypeS3:
		return NewS3Store(ctx, settings.S3)
	default:
		return nil, errors.Newf("unknown storage type %q", settings.Type).
			Component("imagestore").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// validateName rejects names that could escape the store root.
func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Newf("invalid image name %q", name).
			Component("imagestore").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
