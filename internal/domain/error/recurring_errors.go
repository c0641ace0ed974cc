// Package error defines domain-specific errors for the budget planner backend.
package error

import "errors"

// Recurring pattern domain errors.
var (
	// ErrPatternNotFound is returned when a recurring pattern is not found.
	ErrPatternNotFound = errors.New("recurring pattern not found")

	// ErrInvalidFrequency is returned when the recurrence frequency is not a known value.
	ErrInvalidFrequency = errors.New("invalid recurrence frequency")

	// ErrInvalidStatus is returned when the pattern status is not a known value.
	ErrInvalidStatus = errors.New("invalid pattern status")

	// ErrIllegalStatusTransition is returned when a status change is not allowed
	// by the lifecycle transition table.
	ErrIllegalStatusTransition = errors.New("illegal status transition")

	// ErrInvalidConfidenceScore is returned when a confidence score falls outside [0, 1].
	ErrInvalidConfidenceScore = errors.New("confidence score must be between 0 and 1")

	// ErrInvalidIntervalDays is returned when the interval is not a positive day count.
	ErrInvalidIntervalDays = errors.New("interval days must be positive")

	// ErrInvalidAmountTolerance is returned when the amount tolerance is negative.
	ErrInvalidAmountTolerance = errors.New("amount tolerance must not be negative")

	// ErrInvalidOccurrenceCount is returned when the occurrence count would decrease
	// without an explicit correction.
	ErrInvalidOccurrenceCount = errors.New("occurrence count must not decrease")

	// ErrAnalysisAlreadyRunning is returned when a batch analysis is requested while
	// another run is still in progress.
	ErrAnalysisAlreadyRunning = errors.New("recurring analysis already in progress")

	// ErrPatternVersionConflict is returned when an optimistic update lost against a
	// concurrent writer and retries were exhausted.
	ErrPatternVersionConflict = errors.New("pattern was modified concurrently")
)

// RecurringErrorCode defines error codes for recurring pattern errors.
// Format: RCR-XXYYYY where XX is category and YYYY is specific error.
type RecurringErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodePatternNotFound         RecurringErrorCode = "RCR-010001"
	ErrCodeInvalidFrequency        RecurringErrorCode = "RCR-010002"
	ErrCodeInvalidStatus           RecurringErrorCode = "RCR-010003"
	ErrCodeIllegalStatusTransition RecurringErrorCode = "RCR-010004"
	ErrCodeInvalidConfidenceScore  RecurringErrorCode = "RCR-010005"
	ErrCodeInvalidIntervalDays     RecurringErrorCode = "RCR-010006"
	ErrCodeInvalidAmountTolerance  RecurringErrorCode = "RCR-010007"
	ErrCodeInvalidOccurrenceCount  RecurringErrorCode = "RCR-010008"

	// State errors (02XXXX)
	ErrCodeAnalysisAlreadyRunning RecurringErrorCode = "RCR-020001"
	ErrCodeVersionConflict        RecurringErrorCode = "RCR-020002"
	ErrCodeRateLimited            RecurringErrorCode = "RCR-020003"

	// Persistence errors (03XXXX)
	ErrCodePersistence RecurringErrorCode = "RCR-030001"
)

// RecurringError represents a recurring pattern error with code and message.
type RecurringError struct {
	Code    RecurringErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RecurringError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecurringError) Unwrap() error {
	return e.Err
}

// NewRecurringError creates a new RecurringError with the given code and message.
func NewRecurringError(code RecurringErrorCode, message string, err error) *RecurringError {
	return &RecurringError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports a rejected manual edit, identifying the offending field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// PersistenceError wraps a repository I/O failure so callers can distinguish
// storage faults from normal domain outcomes.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a persistence failure for operation op.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
