// config.go: settings struct for Weather Closet and functions to load it.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/weathercloset/weathercloset/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains general application settings.
type MainSettings struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// WebServerSettings contains settings for the HTTP server.
type WebServerSettings struct {
	Host          string        `yaml:"host" mapstructure:"host"`
	Port          string        `yaml:"port" mapstructure:"port"`
	StaticDir     string        `yaml:"static_dir" mapstructure:"static_dir"`           // served under /static
	MaxUploadSize string        `yaml:"max_upload_size" mapstructure:"max_upload_size"` // echo body limit, e.g. "10M"
	ReadTimeout   time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	AllowedOrigins        []string `yaml:"allowed_origins" mapstructure:"allowed_origins"` // CORS; empty allows any origin
	HSTSMaxAge            int      `yaml:"hsts_max_age" mapstructure:"hsts_max_age"`       // seconds, 0 omits the header
	ContentSecurityPolicy string   `yaml:"content_security_policy" mapstructure:"content_security_policy"`
}

// SecuritySettings contains token signing settings.
type SecuritySettings struct {
	SecretKey                string `yaml:"secret_key" mapstructure:"secret_key"`
	Algorithm                string `yaml:"algorithm" mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes" mapstructure:"access_token_expire_minutes"`
}

// SQLiteSettings contains the SQLite database location.
type SQLiteSettings struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DatabaseSettings selects and tunes the relational store.
type DatabaseSettings struct {
	Type               string         `yaml:"type" mapstructure:"type"` // sqlite or mysql
	URL                string         `yaml:"url" mapstructure:"url"`   // mysql URL or DSN
	SQLite             SQLiteSettings `yaml:"sqlite" mapstructure:"sqlite"`
	MaxIdleConns       int            `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxOpenConns       int            `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	SlowQueryThreshold time.Duration  `yaml:"slow_query_threshold" mapstructure:"slow_query_threshold"`
}

// Driver returns the configured driver, inferring mysql from a set URL.
func (d DatabaseSettings) Driver() string {
	switch {
	case d.Type != "":
		return d.Type
	case d.URL != "":
		return "mysql"
	default:
		return "sqlite"
	}
}

// WeatherSettings contains OpenWeather integration settings.
type WeatherSettings struct {
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Units    string        `yaml:"units" mapstructure:"units"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 disables caching
}

// ClassifierSettings contains zero-shot inference endpoint settings.
type ClassifierSettings struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Model    string        `yaml:"model" mapstructure:"model"`
	APIToken string        `yaml:"api_token" mapstructure:"api_token"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// S3Settings contains the bucket used when images are stored in S3.
type S3Settings struct {
	Bucket   string `yaml:"bucket" mapstructure:"bucket"`
	Region   string `yaml:"region" mapstructure:"region"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"` // optional, for S3 compatible services
}

// StorageSettings selects where uploaded images are written.
type StorageSettings struct {
	Type      string     `yaml:"type" mapstructure:"type"` // local or s3
	LocalPath string     `yaml:"local_path" mapstructure:"local_path"`
	S3        S3Settings `yaml:"s3" mapstructure:"s3"`
}

// TelemetrySettings contains Sentry error reporting settings.
type TelemetrySettings struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	DSN         string `yaml:"dsn" mapstructure:"dsn"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// MetricsSettings toggles the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Settings contains all configuration options for Weather Closet.
type Settings struct {
	Debug      bool                 `yaml:"debug" mapstructure:"debug"`
	Main       MainSettings         `yaml:"main" mapstructure:"main"`
	Logging    logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
	WebServer  WebServerSettings    `yaml:"webserver" mapstructure:"webserver"`
	Security   SecuritySettings     `yaml:"security" mapstructure:"security"`
	Database   DatabaseSettings     `yaml:"database" mapstructure:"database"`
	Weather    WeatherSettings      `yaml:"weather" mapstructure:"weather"`
	Classifier ClassifierSettings   `yaml:"classifier" mapstructure:"classifier"`
	Storage    StorageSettings      `yaml:"storage" mapstructure:"storage"`
	Telemetry  TelemetrySettings    `yaml:"telemetry" mapstructure:"telemetry"`
	Metrics    MetricsSettings      `yaml:"metrics" mapstructure:"metrics"`
}

// TokenTTL returns the access token lifetime.
func (s *Settings) TokenTTL() time.Duration {
	return time.Duration(s.Security.AccessTokenExpireMinutes) * time.Minute
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads .env, the configuration file and environment variables into Settings.
// An empty configFile searches the default config paths and writes the embedded
// default config when none is found.
func Load(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if settings.Security.SecretKey == "" {
		settings.Security.SecretKey = GenerateRandomSecret()
		GetLogger().Warn("security.secret_key not set, generated an ephemeral key; tokens will not survive a restart")
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// loadDotEnv loads KEY=VALUE pairs from path without overriding the environment.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// initViper sets defaults, binds the environment and reads the configuration file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		GetLogger().Warn("environment configuration issues", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded config to the user config directory.
func createDefaultConfig() error {
	userDir, err := UserConfigDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(userDir, "config.yaml")

	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	GetLogger().Info("created default config file", logger.String("path", configPath))
	viper.SetConfigFile(configPath)
	return viper.ReadInConfig()
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
