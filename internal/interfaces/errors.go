package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrReminderNotFound is returned when a reminder id is unknown
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrDocumentNotFound is returned when a document history id is unknown
	ErrDocumentNotFound = errors.New("document not found")

	// ErrValidation is the root of every request validation failure
	ErrValidation = errors.New("validation failed")

	// ErrNoParsableLines is returned when an uploaded log file yields no entries
	ErrNoParsableLines = errors.New("no parsable log lines")

	// ErrNoLogsToExport is returned when a CSV export matches nothing
	ErrNoLogsToExport = errors.New("no logs to export")
)

// ValidationError carries a human-readable message and optional details.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
	Details string
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewValidationErrorf creates a validation error with formatted details
func NewValidationErrorf(message, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: message, Details: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Is makes ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
