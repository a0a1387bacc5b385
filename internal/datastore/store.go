// Package datastore persists users, clothing items, weather tags and the
// links between items and tags with gorm on SQLite or MySQL.
package datastore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// Driver names accepted in database.type.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

const pingTimeout = 5 * time.Second

func getLogger() logger.Logger {
	return logger.Global().Module("datastore")
}

// Store owns the database handle and hands out repositories.
type Store struct {
	db      *gorm.DB
	driver  string
	metrics *metrics.DatastoreMetrics
}

// Open connects to the configured database, applies pool settings, pings
// it and migrates the schema.
func Open(ctx context.Context, settings conf.DatabaseSettings, m *metrics.DatastoreMetrics) (*Store, error) {
	driver := settings.Driver()
	gormCfg := &gorm.Config{
		Logger:         newQueryLogger(getLogger(), settings.SlowQueryThreshold, m),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(settings.SQLite.Path, gormCfg)
	case DriverMySQL:
		db, err = openMySQL(settings.URL, gormCfg)
	default:
		return nil, errors.Newf("unsupported database type: %s", driver).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("driver", driver).
			Build()
	}
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, driver: driver, metrics: m}

	if err := store.configurePool(ctx, settings); err != nil {
		_ = store.Close()
		return nil, err
	}
	if m != nil {
		if err := registerMetricsCallbacks(db, m); err != nil {
			_ = store.Close()
			return nil, dbError(err, "register_callbacks")
		}
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	getLogger().Info("database ready", logger.String("driver", driver))
	return store, nil
}

// configurePool applies connection limits and pings the database.
func (s *Store) configurePool(ctx context.Context, settings conf.DatabaseSettings) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "get_sql_db")
	}

	maxIdle := settings.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	maxOpen := settings.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 30
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return errors.New(fmt.Errorf("database ping failed: %w", err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Priority(errors.PriorityHigh).
			Context("operation", "ping").
			Context("driver", s.driver).
			Build()
	}
	return nil
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return dbError(fmt.Errorf("auto migration failed: %w", err), "migrate", "driver", s.driver)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "close")
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close")
	}
	return nil
}

// Ping checks that the database is reachable and refreshes pool gauges.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "ping")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dbError(err, "ping")
	}
	stats := sqlDB.Stats()
	s.metrics.UpdateConnectionMetrics(stats.OpenConnections, stats.Idle)
	return nil
}

// Driver returns the active driver name.
func (s *Store) Driver() string { return s.driver }

// Users returns the user repository.
func (s *Store) Users() UserRepository { return &userRepository{db: s.db} }

// Items returns the item repository.
func (s *Store) Items() ItemRepository { return &itemRepository{db: s.db} }

// Tags returns the tag repository.
func (s *Store) Tags() TagRepository { return &tagRepository{db: s.db} }
