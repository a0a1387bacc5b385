package datastore

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
)

func openMySQL(url string, cfg *gorm.Config) (*gorm.DB, error) {
	if url == "" {
		return nil, errors.Newf("database.url is required for mysql").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	dsn, err := conf.MySQLDSN(url)
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("operation", "parse_dsn").
			Build()
	}

	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		return nil, dbError(fmt.Errorf("failed to open MySQL database: %w", err), "open", "driver", DriverMySQL)
	}
	return db, nil
}
