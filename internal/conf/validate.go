// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		func(s *Settings) error { return validateWebServerSettings(&s.WebServer) },
		func(s *Settings) error { return validateSecuritySettings(&s.Security) },
		func(s *Settings) error { return validateDatabaseSettings(&s.Database) },
		func(s *Settings) error { return validateWeatherSettings(&s.Weather) },
		func(s *Settings) error { return validateClassifierSettings(&s.Classifier) },
		func(s *Settings) error { return validateStorageSettings(&s.Storage) },
		func(s *Settings) error { return validateTelemetrySettings(&s.Telemetry) },
	}

	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}

	return nil
}

func validateWebServerSettings(s *WebServerSettings) error {
	port, err := strconv.Atoi(s.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port must be 1-65535, got '%s'", s.Port)
	}
	return nil
}

func validateSecuritySettings(s *SecuritySettings) error {
	if s.Algorithm != "HS256" {
		return fmt.Errorf("security.algorithm must be HS256, got '%s'", s.Algorithm)
	}
	if s.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("security.access_token_expire_minutes must be positive")
	}
	return nil
}

func validateDatabaseSettings(s *DatabaseSettings) error {
	switch s.Driver() {
	case "sqlite":
		if s.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required for sqlite")
		}
	case "mysql":
		if s.URL == "" {
			return fmt.Errorf("database.url is required for mysql")
		}
		if err := validateEnvDatabaseURL(s.URL); err != nil {
			return fmt.Errorf("database.url: %w", err)
		}
	default:
		return fmt.Errorf("database.type must be sqlite or mysql, got '%s'", s.Type)
	}
	if s.MaxOpenConns > 0 && s.MaxIdleConns > s.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds max_open_conns (%d)", s.MaxIdleConns, s.MaxOpenConns)
	}
	return nil
}

func validateWeatherSettings(s *WeatherSettings) error {
	if s.APIKey != "" && !openWeatherKeyPattern.MatchString(s.APIKey) {
		return fmt.Errorf("weather.api_key must be 32 hexadecimal characters")
	}
	if s.Endpoint == "" {
		return fmt.Errorf("weather.endpoint is required")
	}
	if s.CacheTTL < 0 {
		return fmt.Errorf("weather.cache_ttl cannot be negative")
	}
	return nil
}

func validateClassifierSettings(s *ClassifierSettings) error {
	if !s.Enabled {
		return nil
	}
	var missing []string
	if s.Endpoint == "" {
		missing = append(missing, "endpoint")
	}
	if s.Model == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return fmt.Errorf("classifier enabled but missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateStorageSettings(s *StorageSettings) error {
	switch s.Type {
	case "local":
		if s.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required for local storage")
		}
	case "s3":
		if s.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("storage.type must be local or s3, got '%s'", s.Type)
	}
	return nil
}

func validateTelemetrySettings(s *TelemetrySettings) error {
	if s.Enabled && s.DSN == "" {
		return fmt.Errorf("telemetry.dsn is required when telemetry is enabled")
	}
	return nil
}
