// Package api provides the HTTP server for Weather Closet: the JSON API,
// the server rendered pages and static assets.
package api

import (
	"fmt"
	"time"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the HTTP server configuration.
type Config struct {
	// Server binding
	Host string
	Port string

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Static content
	StaticDir string // on-disk override for embedded assets
	ImageDir  string // uploaded images served under /static/images; empty when images live in S3

	MetricsEnabled bool
	Debug          bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            "8000",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		StaticDir:       "static",
		ImageDir:        conf.DefaultImageDir,
		MetricsEnabled:  true,
	}
}

// ConfigFromSettings creates a Config from the application settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()

	cfg.Host = settings.WebServer.Host
	if settings.WebServer.Port != "" {
		cfg.Port = settings.WebServer.Port
	}
	if settings.WebServer.ReadTimeout > 0 {
		cfg.ReadTimeout = settings.WebServer.ReadTimeout
	}
	if settings.WebServer.WriteTimeout > 0 {
		cfg.WriteTimeout = settings.WebServer.WriteTimeout
	}
	cfg.StaticDir = settings.WebServer.StaticDir

	cfg.ImageDir = ""
	if settings.Storage.Type == "" || settings.Storage.Type == "local" {
		cfg.ImageDir = settings.Storage.LocalPath
	}

	cfg.MetricsEnabled = settings.Metrics.Enabled
	cfg.Debug = settings.Debug
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	return nil
}

// Address returns the address the server listens on.
func (c *Config) Address() string {
	if c.Host == "" {
		return ":" + c.Port
	}
	return c.Host + ":" + c.Port
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Server Config: address=%s, metrics=%v, debug=%v",
		c.Address(), c.MetricsEnabled, c.Debug)
}
