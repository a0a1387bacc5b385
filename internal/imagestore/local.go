package imagestore

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// LocalStore writes images into a directory served under /static/images.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "static/images"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(err).
			Component("imagestore").
			Category(errors.CategoryFileIO).
			Context("operation", "create_image_dir").
			Context("path", dir).
			Build()
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes body to a temporary file and renames it into place.
func (s *LocalStore) Save(ctx context.Context, name, _ string, body io.Reader) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fileError(err, "create_temp", s.dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fileError(err, "write_image", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return fileError(err, "close_image", tmp.Name())
	}

	dst := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fileError(err, "rename_image", dst)
	}

	getLogger().Debug("stored image", logger.String("path", dst))
	return nil
}

// Delete removes the named image. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fileError(err, "delete_image", path)
	}
	return nil
}

func fileError(err error, op, path string) error {
	return errors.New(err).
		Component("imagestore").
		Category(errors.CategoryFileIO).
		Context("operation", op).
		Context("path", path).
		Build()
}
