package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ctx       *Context
		version   string
		buildDate string
	}{
		{"nil context", nil, UnknownValue, UnknownValue},
		{"empty values", NewContext("", ""), UnknownValue, UnknownValue},
		{"set values", NewContext("1.0.0", "2026-01-01"), "1.0.0", "2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.version, tt.ctx.GetVersion())
			assert.Equal(t, tt.buildDate, tt.ctx.GetBuildDate())
		})
	}
}

func TestContext_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "weathercloset 1.0.0 (built unknown)", NewContext("1.0.0", "").String())
}
