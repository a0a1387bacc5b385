package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReporter struct {
	reports int
}

func (r *countingReporter) ReportError(ee *EnhancedError) {
	r.reports++
	ee.MarkReported()
}

func (r *countingReporter) IsEnabled() bool { return true }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuilder_SetsFields(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(NewStd("boom")).
		Component("closet").
		Category(CategoryConflict).
		Priority("nonsense").
		Context("operation", "link_tag").
		Build()

	assert.Equal(t, "closet", ee.GetComponent())
	assert.Equal(t, CategoryConflict, ee.Category)
	assert.Equal(t, PriorityMedium, ee.Priority)
	assert.Equal(t, "link_tag", ee.GetContext()["operation"])
}

func TestCategoryHelpers(t *testing.T) {
	SetTelemetryReporter(nil)

	notFound := NotFoundError("Item not found")
	wrapped := fmt.Errorf("delete failed: %w", notFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
	assert.Equal(t, CategoryGeneric, CategoryOf(NewStd("plain")))

	rewrapped := New(wrapped).Build()
	assert.Equal(t, CategoryNotFound, rewrapped.Category, "category is inherited from wrapped enhanced errors")
}

func TestIs_MatchesWrappedSentinel(t *testing.T) {
	sentinel := NewStd("sentinel")
	ee := New(fmt.Errorf("context: %w", sentinel)).Category(CategoryDatabase).Build()

	require.ErrorIs(t, ee, sentinel)
}

func TestTelemetryReporter_ReceivesErrors(t *testing.T) {
	reporter := &countingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(NewStd("upstream exploded")).Build()

	assert.Equal(t, 1, reporter.reports)
	assert.True(t, ee.IsReported())
}

func TestSentryReporter_SkipsClientErrors(t *testing.T) {
	assert.False(t, shouldReport(CategoryValidation))
	assert.False(t, shouldReport(CategoryNotFound))
	assert.True(t, shouldReport(CategoryUpstream))
	assert.True(t, shouldReport(CategoryDatabase))
}

func TestBasicURLScrub(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{
			name:     "query string",
			input:    "Error at https://api.openweathermap.org/data/2.5/weather?q=London&appid=secret",
			contains: "https://api.openweathermap.org/data/2.5/weather?[REDACTED]",
			absent:   "secret",
		},
		{
			name:     "api key outside url",
			input:    "config error: api_key=secret123 is invalid",
			contains: "[API_KEY_REDACTED]",
			absent:   "secret123",
		},
		{
			name:     "bearer token",
			input:    "header Bearer eyJhbGciOi was rejected",
			contains: "[API_KEY_REDACTED]",
			absent:   "eyJhbGciOi",
		},
		{
			name:     "email",
			input:    "duplicate user alice@example.com",
			contains: "[EMAIL_REDACTED]",
			absent:   "alice@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scrubbed := basicURLScrub(tt.input)
			assert.Contains(t, scrubbed, tt.contains)
			assert.NotContains(t, scrubbed, tt.absent)
		})
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(NewStd("x")).
		Component("weather").
		Category(CategoryUpstream).
		Context("operation", "fetch_current").
		Build()

	assert.Equal(t, "Weather Upstream Error Fetch Current", generateErrorTitle(ee, ee.GetComponent()))
}
