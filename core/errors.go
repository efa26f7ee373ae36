package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Actor-related errors
	ErrActorUnreachable = errors.New("actor unreachable")
	ErrHandlerNotFound  = errors.New("no matching handler")

	// Discovery-related errors
	ErrDiscoveryFailed      = errors.New("discovery failed")
	ErrMetadataUnparseable  = errors.New("metadata response unparseable")
	ErrDiscoveryUnavailable = errors.New("discovery service unavailable")

	// Translation errors
	ErrExtractionIncomplete = errors.New("required parameters missing after extraction")
	ErrValidationFailed     = errors.New("parameter validation failed")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")

	// Operation errors
	ErrTimeout            = errors.New("operation timeout")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

	// Transport errors
	ErrConnectionFailed = errors.New("connection failed")
	ErrRequestFailed    = errors.New("request failed")
)

// CommError provides structured error information with context.
// It implements the error interface and supports error wrapping.
type CommError struct {
	Op       string        // Operation that failed (e.g., "discovery.Discover")
	Category ErrorCategory // Failure classification (discovery, validation, ...)
	ActorID  string        // Optional actor involved
	Message  string        // Human-readable message
	Err      error         // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *CommError) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ActorID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ActorID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Category)
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *CommError) Unwrap() error {
	return e.Err
}

// NewCommError creates a new CommError
func NewCommError(op string, category ErrorCategory, err error) *CommError {
	return &CommError{
		Op:       op,
		Category: category,
		Err:      err,
	}
}

// Categorize extracts the category from a structured error, defaulting to
// execution for plain errors. Transport-level faults map to network.
func Categorize(err error) ErrorCategory {
	var ce *CommError
	if errors.As(err, &ce) && ce.Category != "" {
		return ce.Category
	}
	switch {
	case errors.Is(err, ErrConnectionFailed), errors.Is(err, ErrRequestFailed), errors.Is(err, ErrTimeout):
		return CategoryNetwork
	case errors.Is(err, ErrDiscoveryFailed), errors.Is(err, ErrMetadataUnparseable), errors.Is(err, ErrDiscoveryUnavailable):
		return CategoryDiscovery
	case errors.Is(err, ErrHandlerNotFound):
		return CategoryMatching
	case errors.Is(err, ErrExtractionIncomplete):
		return CategoryExtraction
	case errors.Is(err, ErrValidationFailed):
		return CategoryValidation
	case errors.Is(err, ErrInvalidConfiguration), errors.Is(err, ErrMissingConfiguration):
		return CategoryConfiguration
	default:
		return CategoryExecution
	}
}

// IsRetryable checks if an error is retryable
// Retryable errors are typically transient network or availability issues
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDiscoveryUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrActorUnreachable)
}

// IsConfigurationError checks if an error is configuration-related
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrMissingConfiguration)
}
