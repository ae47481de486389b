// Package apperrors defines the request-scoped error taxonomy shared by
// services and translated to HTTP statuses in the handlers. No error
// here is retried and none is fatal to the process.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common cases.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a uniqueness or required-field violation,
// attributable to a specific field for form display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a field-level validation error.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a business-rule denial: deleting the super-admin
// role, deleting a role with users, touching a super-admin record as a
// regular admin, self-deletion. It is a modeled "denied" result, not a
// failure of the authorization engine (which only returns booleans).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Conflict builds a business-rule denial.
func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IntegrityError reports data corruption, e.g. syncing a role to a
// permission id outside the catalogue. It fails loudly instead of
// silently dropping the offending value.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string { return e.Message }

// Integrity builds an integrity error.
func Integrity(format string, args ...any) *IntegrityError {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsIntegrity reports whether err is an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
