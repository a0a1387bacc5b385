package datastore

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
)

// sqliteDSN enables foreign keys, WAL and a busy timeout on every connection.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(path))
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	if path == "" {
		path = conf.DefaultSQLitePath
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(fmt.Errorf("failed to create database directory: %w", err)).
				Component("datastore").
				Category(errors.CategoryFileIO).
				Context("path", dir).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), cfg)
	if err != nil {
		return nil, dbError(fmt.Errorf("failed to open SQLite database: %w", err), "open", "driver", DriverSQLite, "path", path)
	}
	return db, nil
}
