package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

const metricsStartKey = "metrics:start"

// registerMetricsCallbacks records duration and outcome of every gorm
// create, query, update and delete.
func registerMetricsCallbacks(db *gorm.DB, m *metrics.DatastoreMetrics) error {
	cb := db.Callback()
	type hook struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}
	hooks := []hook{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
	}

	for _, h := range hooks {
		if err := h.before("metrics:before_"+h.operation, startTimer); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+h.operation, recordOperation(h.operation, m)); err != nil {
			return err
		}
	}
	return nil
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(metricsStartKey, time.Now())
}

func recordOperation(operation string, m *metrics.DatastoreMetrics) func(*gorm.DB) {
	return func(db *gorm.DB) {
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		if v, ok := db.InstanceGet(metricsStartKey); ok {
			if start, ok := v.(time.Time); ok {
				m.RecordDbOperationDuration(operation, table, time.Since(start).Seconds())
			}
		}

		if db.Error != nil && !isRecordNotFound(db.Error) {
			m.RecordDbOperation(operation, table, metrics.StatusError)
			m.RecordDbOperationError(operation, table, categorizeError(db.Error))
			return
		}
		m.RecordDbOperation(operation, table, metrics.StatusSuccess)
	}
}
