package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/weathercloset/weathercloset/internal/observability/metrics"
)

// NewHTTPMetrics records request counts and latencies by route template.
func NewHTTPMetrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler has not written the response yet.
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start).Seconds())
			if status >= http.StatusBadRequest {
				m.RecordHTTPError(c.Request().Method, path, http.StatusText(status))
			}
			return err
		}
	}
}
