package logger

import (
	"regexp"
	"strings"
)

// SensitiveDataPatterns contains regex patterns for sensitive data that should be redacted in logs
var SensitiveDataPatterns = []*regexp.Regexp{
	// Auth tokens (Bearer, JWT)
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9-._~+/]+=*)`),
	regexp.MustCompile(`(?i)(eyJ[a-zA-Z0-9_-]{5,}\.eyJ[a-zA-Z0-9_-]{5,})\.[a-zA-Z0-9_-]{5,}`),

	// API keys, tokens and secrets, including OpenWeather's appid query parameter
	regexp.MustCompile(`(?i)((appid|api|access|auth|token|secret|key|passw(or)?d)[0-9a-z\-_\.]*[\s:=]+)([^;,&\s]{5,})`),

	// Cookies
	regexp.MustCompile(`(?i)(session|auth|token|csrf|sid)=([^;,\s]{5,})`),
}

// SensitiveKeywords are keywords that indicate fields may contain sensitive data
var SensitiveKeywords = []string{
	"password", "passwd", "secret", "credential", "token", "auth", "key", "appid",
	"authorization", "cookie", "session",
}

// RedactSensitiveData replaces sensitive information with "[REDACTED]"
func RedactSensitiveData(input string) string {
	if input == "" {
		return input
	}

	for _, pattern := range SensitiveDataPatterns {
		input = pattern.ReplaceAllString(input, "$1[REDACTED]")
	}

	return input
}

// RedactSensitiveFields returns a copy of fields with string values redacted
// when the key looks sensitive.
func RedactSensitiveFields(fields []Field) []Field {
	result := make([]Field, len(fields))
	copy(result, fields)

	for i := range result {
		value, ok := result[i].Value.(string)
		if !ok || value == "" {
			continue
		}
		keyLower := strings.ToLower(result[i].Key)
		for _, sensitiveKey := range SensitiveKeywords {
			if strings.Contains(keyLower, sensitiveKey) {
				result[i].Value = "[REDACTED]"
				break
			}
		}
	}

	return result
}
