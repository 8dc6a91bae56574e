package util

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Common error types for topk
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrPartialResult indicates some shards could not be merged
	ErrPartialResult = errors.New("partial result")
)

// ShardError wraps an error with the shard it came from
type ShardError struct {
	Shard string
	Err   error
}

// Error implements the error interface
func (e *ShardError) Error() string {
	return fmt.Sprintf("shard '%s': %v", e.Shard, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ShardError) Unwrap() error {
	return e.Err
}

// WrapShardError wraps an error with shard context
func WrapShardError(shard string, err error) error {
	if err == nil {
		return nil
	}
	return &ShardError{
		Shard: shard,
		Err:   err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap lets validation failures match ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsNotFound checks if an error is a missing file error
func IsNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// IsPermissionError checks if an error is a permission error
func IsPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsTimeout(err):
		return "Operation timed out. Please try again or increase the timeout value with --timeout flag."
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrInvalidConfig):
		return fmt.Sprintf("Invalid configuration: %v", err)
	case IsNotFound(err):
		return fmt.Sprintf("File not found: %v", err)
	case IsPermissionError(err):
		return fmt.Sprintf("Permission denied: %v", err)
	default:
		return err.Error()
	}
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
