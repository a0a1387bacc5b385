package datastore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// queryLogger routes gorm output into the datastore module logger.
// Statements log at TRACE; set module_levels.datastore to "trace" to see
// them. Statements slower than the configured threshold log at WARN and
// are counted.
type queryLogger struct {
	log     logger.Logger
	slow    time.Duration
	metrics *metrics.DatastoreMetrics
	silent  bool
}

func newQueryLogger(log logger.Logger, slow time.Duration, m *metrics.DatastoreMetrics) *queryLogger {
	return &queryLogger{log: log, slow: slow, metrics: m}
}

// LogMode honours Silent, used by gorm sessions that want no output.
func (q *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *q
	c.silent = level == gormlogger.Silent
	return &c
}

func (q *queryLogger) Info(_ context.Context, msg string, data ...any) {
	if !q.silent {
		q.log.Debug(fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Warn(_ context.Context, msg string, data ...any) {
	if !q.silent {
		q.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Error(_ context.Context, msg string, data ...any) {
	if !q.silent {
		q.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace is called by gorm after every statement.
func (q *queryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	slow := q.slow > 0 && elapsed > q.slow
	if slow {
		q.metrics.RecordSlowQuery()
	}
	if q.silent {
		return
	}

	sql, rows := fc()
	fields := []logger.Field{
		logger.String("sql", sql),
		logger.Int64("rows", rows),
		logger.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		q.log.Warn("statement failed", append(fields, logger.Error(err))...)
	case slow:
		q.log.Warn("slow statement", append(fields, logger.Duration("threshold", q.slow))...)
	default:
		q.log.Trace("statement", fields...)
	}
}
