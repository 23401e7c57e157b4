package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeProvider represents failures talking to a language-model provider
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypeInput represents invalid caller input
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
	// ErrorTypeInternal represents unexpected failures recovered at a boundary
	ErrorTypeInternal ErrorType = "internal"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType reports the category; promoted to every error embedding *BaseError.
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Provider Errors

// ErrProviderRequestFailed is returned when the chat-completions call fails,
// either with a non-2xx status or before a response arrived (StatusCode 0).
type ErrProviderRequestFailed struct {
	*BaseError
	Provider   string
	StatusCode int
	Body       string
}

func NewProviderRequestFailed(provider string, statusCode int, body string, err error) *ErrProviderRequestFailed {
	msg := fmt.Sprintf("%s API Error: %d - %s", provider, statusCode, body)
	if statusCode == 0 {
		msg = fmt.Sprintf("%s API request failed", provider)
	}
	return &ErrProviderRequestFailed{
		BaseError:  NewBaseError(ErrorTypeProvider, msg, err),
		Provider:   provider,
		StatusCode: statusCode,
		Body:       body,
	}
}

// Error reads like the provider's own report. For an HTTP failure the status
// and body already describe the problem, so the wrapped client error is left
// out; it stays reachable through Unwrap.
func (e *ErrProviderRequestFailed) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Retryable reports whether a caller could reasonably try again.
// Nothing in this module retries on its own.
func (e *ErrProviderRequestFailed) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ErrUnknownProvider is returned for an API provider selector outside the known set
type ErrUnknownProvider struct {
	*BaseError
	Provider string
}

func NewUnknownProvider(provider string) *ErrUnknownProvider {
	return &ErrUnknownProvider{
		BaseError: NewBaseError(ErrorTypeProvider, fmt.Sprintf("invalid api provider: %q", provider), nil),
		Provider:  provider,
	}
}

// Input Errors

// ErrInvalidRequest is returned when a request parameter is out of range
type ErrInvalidRequest struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidRequest(field, reason string) *ErrInvalidRequest {
	return &ErrInvalidRequest{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Internal Errors

// ErrUnexpected wraps a panic recovered at a component boundary
type ErrUnexpected struct {
	*BaseError
	Operation string
}

func NewUnexpected(operation string, recovered any) *ErrUnexpected {
	return &ErrUnexpected{
		BaseError: NewBaseError(ErrorTypeInternal, fmt.Sprintf("unexpected failure in %s: %v", operation, recovered), nil),
		Operation: operation,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// ErrContextTimeout is returned when context times out
type ErrContextTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewContextTimeout(operation string, timeout time.Duration, err error) *ErrContextTimeout {
	return &ErrContextTimeout{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context timeout: %s (timeout: %v)", operation, timeout), err),
		Operation: operation,
		Timeout:   timeout,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type typed interface {
	ErrorType() ErrorType
}

// IsErrorType checks whether any error in the chain has the given category
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.ErrorType() == errType {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var providerErr *ErrProviderRequestFailed
	if stderrors.As(err, &providerErr) {
		return providerErr.Retryable()
	}
	return false
}
