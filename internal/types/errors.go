package types

import (
	"fmt"
)

// ErrorCode is a typed string for categorizing forwarder errors.
type ErrorCode string

// Error code constants. Handlers and clients MUST use these instead of
// hardcoded strings so log queries stay stable.
const (
	// Inbound payload problems. Retrying the same message will not help.
	ErrCodeValidationEventPayload ErrorCode = "validation_event_payload_invalid"
	ErrCodeValidationConfig       ErrorCode = "validation_config_invalid"

	// Secret store.
	ErrCodeInternalSecretResolution ErrorCode = "internal_secret_resolution_failed"
	ErrCodeInternalUnexpected       ErrorCode = "internal_unexpected_error"

	// Delivery endpoint.
	ErrCodeUpstreamNtfyRejected ErrorCode = "upstream_ntfy_rejected"
	ErrCodeUpstreamUnavailable  ErrorCode = "upstream_unavailable"
)

// AppError is the standard error type used throughout the forwarder.
// It carries a stable code, a human message, and an optional cause.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
