package error

import "errors"

// Spending insight domain errors.
var (
	// ErrInsightUnavailable is returned when the insight service is not configured.
	ErrInsightUnavailable = errors.New("insight service is not available")

	// ErrNoPatternsForInsight is returned when there are no active patterns to analyze.
	ErrNoPatternsForInsight = errors.New("no active patterns to analyze")
)

// InsightErrorCode defines error codes for spending insight errors.
type InsightErrorCode string

const (
	ErrCodeInsightUnavailable   InsightErrorCode = "INS-010001"
	ErrCodeNoPatternsForInsight InsightErrorCode = "INS-010002"
	ErrCodeInsightGeneration    InsightErrorCode = "INS-020001"
)

// InsightError represents a spending insight error with code and message.
type InsightError struct {
	Code    InsightErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *InsightError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *InsightError) Unwrap() error {
	return e.Err
}

// NewInsightError creates a new InsightError with the given code and message.
func NewInsightError(code InsightErrorCode, message string, err error) *InsightError {
	return &InsightError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
