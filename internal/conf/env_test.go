package conf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnvBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"true", "true", false},
		{"false", "false", false},
		{"1", "1", false},
		{"TRUE", "TRUE", false},
		{"true with spaces", " true ", false},
		{"invalid", "maybe", true},
		{"yes", "yes", true},
		{"empty", "", true},
		{"decimal", "0.5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvBool(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid boolean value")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEnvOpenWeatherKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"lowercase hex", "0123456789abcdef0123456789abcdef", false},
		{"uppercase hex", "0123456789ABCDEF0123456789ABCDEF", false},
		{"too short", "0123456789abcdef", true},
		{"too long", "0123456789abcdef0123456789abcdef0", true},
		{"non hex", "g123456789abcdef0123456789abcdef", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvOpenWeatherKey(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotContains(t, err.Error(), tt.value, "secrets must not leak into messages")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEnvDatabaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"mysql url", "mysql://user:pass@db:3306/closet", false},
		{"pymysql url", "mysql+pymysql://user:pass@db/closet", false},
		{"raw dsn", "user:pass@tcp(db:3306)/closet?parseTime=true", false},
		{"postgres", "postgres://user@db/closet", true},
		{"missing database", "mysql://user:pass@db:3306/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnvDatabaseURL(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBindEnvVars_ReportsInvalidValues(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "not-a-key")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")

	err := bindEnvVars()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
	assert.False(t, strings.Contains(err.Error(), "not-a-key"))
}
