package sentiment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies classifier failures for retry and reporting decisions.
type ErrorType string

const (
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeModel    ErrorType = "model"
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeResponse ErrorType = "response"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error is a structured classifier error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether the operation can be retried
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface so the retry
// package can check retryability without importing sentiment.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured classifier error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error from the classifier endpoint and
// returns a structured Error. Consolidates classification so retry and
// breaker behavior stay consistent across providers.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var clsErr *Error
	if errors.As(err, &clsErr) {
		return clsErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	build := func(t ErrorType, msg string, retryable bool) *Error {
		e := NewError(t, msg, retryable, err)
		e.StatusCode = statusCode
		return e
	}

	// Authentication errors (not retryable)
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		return build(ErrorTypeAuth, "authentication failed", false)
	}

	// Model not found (not retryable without config change)
	if strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")) {
		return build(ErrorTypeModel, "model not found", false)
	}

	// Endpoint not found (not retryable without config change)
	if strings.Contains(errStr, "404") {
		return build(ErrorTypeEndpoint, "endpoint not found", false)
	}

	// Connection errors (retryable)
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		return build(ErrorTypeEndpoint, "connection failed", true)
	}

	// Timeouts (retryable)
	if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		return build(ErrorTypeEndpoint, "request timeout", true)
	}

	// Rate limiting (retryable after backoff)
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") {
		return build(ErrorTypeUnknown, "rate limited", true)
	}

	// 5xx server errors (retryable)
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		return build(ErrorTypeEndpoint, "server error", true)
	}

	return build(ErrorTypeUnknown, "classifier error", false)
}

// IsRetryable returns true if the error is a retryable classifier error.
func IsRetryable(err error) bool {
	var clsErr *Error
	if errors.As(err, &clsErr) {
		return clsErr.Retryable
	}
	return false
}
