// Package observability provides Prometheus metrics for Weather Closet.
package observability

import "github.com/weathercloset/weathercloset/internal/logger"

// getLogger returns the metrics module logger. Resolved per call so that
// loggers configured after package init are picked up.
func getLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
