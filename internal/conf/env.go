// env.go - environment variable bindings and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation.
// Names follow the variables the service has always been deployed with.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "WEATHERCLOSET_DEBUG", validateEnvBool},

		{"database.url", "DATABASE_URL", validateEnvDatabaseURL},
		{"database.type", "DATABASE_TYPE", validateEnvDatabaseType},

		{"security.secret_key", "SECRET_KEY", nil},
		{"security.algorithm", "ALGORITHM", validateEnvAlgorithm},
		{"security.access_token_expire_minutes", "ACCESS_TOKEN_EXPIRE_MINUTES", validateEnvPositiveInt},

		{"weather.api_key", "OPENWEATHER_API_KEY", validateEnvOpenWeatherKey},

		{"classifier.api_token", "CLASSIFIER_API_TOKEN", nil},
		{"classifier.enabled", "CLASSIFIER_ENABLED", validateEnvBool},

		{"storage.type", "STORAGE_TYPE", validateEnvStorageType},
		{"storage.s3.bucket", "S3_BUCKET", nil},
		{"storage.s3.region", "AWS_REGION", nil},

		{"telemetry.dsn", "SENTRY_DSN", nil},
		{"webserver.port", "PORT", validateEnvPort},
	}
}

// bindEnvVars sets up environment variable bindings with validation
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				// values of secrets never make it into the message
				warnings = append(warnings, fmt.Sprintf("Invalid %s: %v", binding.EnvVar, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// validateEnvBool validates boolean environment variables
func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

func validateEnvPositiveInt(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero, got %d", n)
	}
	return nil
}

func validateEnvPort(value string) error {
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be 1-65535, got '%s'", value)
	}
	return nil
}

// openWeatherKeyPattern matches OpenWeather API keys, 32 hex characters.
var openWeatherKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

func validateEnvOpenWeatherKey(value string) error {
	if !openWeatherKeyPattern.MatchString(value) {
		return fmt.Errorf("must be 32 hexadecimal characters (got %d characters)", len(value))
	}
	return nil
}

func validateEnvAlgorithm(value string) error {
	if value != "HS256" {
		return fmt.Errorf("only HS256 is supported, got '%s'", value)
	}
	return nil
}

func validateEnvDatabaseType(value string) error {
	switch value {
	case "sqlite", "mysql":
		return nil
	default:
		return fmt.Errorf("must be sqlite or mysql, got '%s'", value)
	}
}

func validateEnvStorageType(value string) error {
	switch value {
	case "local", "s3":
		return nil
	default:
		return fmt.Errorf("must be local or s3, got '%s'", value)
	}
}

// validateEnvDatabaseURL accepts mysql URLs (including the mysql+pymysql scheme)
// and raw go-sql-driver DSNs.
func validateEnvDatabaseURL(value string) error {
	if strings.Contains(value, "@tcp(") {
		return nil
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("unparseable database URL")
	}
	switch u.Scheme {
	case "mysql", "mysql+pymysql", "mariadb":
	default:
		return fmt.Errorf("unsupported database URL scheme '%s'", u.Scheme)
	}
	if u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("database URL must include host and database name")
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}
