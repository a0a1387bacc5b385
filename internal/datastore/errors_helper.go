package datastore

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/weathercloset/weathercloset/internal/errors"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// validationError creates a validation error
func validationError(message, field string, value any) error {
	return errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", fmt.Sprintf("%v", value)).
		Build()
}

// conflictError creates a conflict error for constraint violations
func conflictError(err error, operation, conflictType string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryConflict).
		Context("operation", operation).
		Context("conflict_type", conflictType).
		Build()
}

// notFoundError creates a not found error carrying a user-facing message
func notFoundError(message, resource, identifier string) error {
	return errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("resource", resource).
		Context("identifier", identifier).
		Build()
}

// isUniqueViolation reports a duplicate key on insert. Errors are translated
// by gorm when the dialect supports it; driver messages are matched otherwise.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "duplicate entry") ||
		strings.Contains(errStr, "duplicate key")
}

// isForeignKeyViolation reports a rejected insert or delete due to a foreign key.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

// categorizeError categorizes database errors for metrics
func categorizeError(err error) string {
	if err == nil {
		return "none"
	}

	switch {
	case isUniqueViolation(err):
		return "constraint_violation"
	case isForeignKeyViolation(err):
		return "foreign_key_violation"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "check constraint"):
		return "check_violation"
	case strings.Contains(errStr, "deadlock"):
		return "deadlock"
	case strings.Contains(errStr, "database is locked"):
		return "database_locked"
	case strings.Contains(errStr, "connection"):
		return "connection_error"
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	default:
		return "other"
	}
}
