// Package conf provides configuration management for Weather Closet.
package conf

import "github.com/weathercloset/weathercloset/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
