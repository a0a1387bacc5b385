// Package telemetry reports unexpected errors to Sentry. Reporting is opt-in
// and events are stripped of user, host and request details before sending.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// GetLogger returns the telemetry module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("telemetry")
}

var (
	mu          sync.Mutex
	initialized bool
)

// allowedExtra lists event extras that survive the privacy filter.
var allowedExtra = map[string]bool{
	"error_type": true,
	"component":  true,
}

// Init configures the Sentry SDK and routes enhanced errors to it. It returns
// false without error when telemetry is disabled. transport may be nil.
func Init(settings conf.TelemetrySettings, release string, transport sentry.Transport) (bool, error) {
	if !settings.Enabled {
		GetLogger().Debug("telemetry disabled")
		return false, nil
	}
	if settings.DSN == "" {
		return false, errors.Newf("telemetry enabled but no DSN configured").
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	environment := settings.Environment
	if environment == "" {
		environment = "production"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.DSN,
		Environment:      environment,
		Release:          fmt.Sprintf("weathercloset@%s", release),
		SampleRate:       1.0,
		AttachStacktrace: false,
		ServerName:       "",
		Transport:        transport,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry initialization failed: %w", err)
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	mu.Lock()
	initialized = true
	mu.Unlock()

	GetLogger().Info("telemetry enabled",
		logger.String("environment", environment),
		logger.String("release", release))
	return true, nil
}

// applyPrivacyFilters removes identifying data from an event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if !allowedExtra[k] {
			delete(event.Extra, k)
		}
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}
	return event
}

// Flush waits up to timeout for queued events and detaches the reporter.
func Flush(timeout time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		return
	}

	if !sentry.Flush(timeout) {
		GetLogger().Warn("telemetry flush timed out", logger.Duration("timeout", timeout))
	}
	errors.SetTelemetryReporter(nil)
	initialized = false
}
