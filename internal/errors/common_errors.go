package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMissingColumn       ErrorType = "MISSING_COLUMN"
	ErrTypeDecodingExhausted   ErrorType = "DECODING_EXHAUSTED"
	ErrTypeTimestampUnparsable ErrorType = "TIMESTAMP_UNPARSABLE"
	ErrTypeIOFailure           ErrorType = "IO_FAILURE"
	ErrTypeMalformedCSV        ErrorType = "MALFORMED_CSV"
	ErrTypeValidation          ErrorType = "VALIDATION"
	ErrTypeConfig              ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain,
// or "" when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain contains an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsFileScoped reports whether err only invalidates the file being processed.
// Such errors are reported and the batch moves on.
func IsFileScoped(err error) bool {
	switch TypeOf(err) {
	case ErrTypeMissingColumn, ErrTypeDecodingExhausted, ErrTypeIOFailure, ErrTypeMalformedCSV:
		return true
	}
	return false
}

// Helper functions for common error types

// NewMissingColumnError creates an error for a header lacking the required column
func NewMissingColumnError(column, source string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("column %q not found", column), nil).
		WithContext("column", column).
		WithContext("source", source)
}

// NewDecodingExhaustedError creates an error for a resource no candidate encoding could decode
func NewDecodingExhaustedError(source string, attempted []string, cause error) *AppError {
	return NewAppError(ErrTypeDecodingExhausted, "no candidate encoding could decode the file", cause).
		WithContext("source", source).
		WithContext("attempted", attempted)
}

// NewTimestampError creates a row-level error for an unparsable timestamp
func NewTimestampError(value string, cause error) *AppError {
	return NewAppError(ErrTypeTimestampUnparsable, fmt.Sprintf("cannot parse timestamp %q", value), cause).
		WithContext("value", value)
}

// NewIOError creates an error for unreadable or unwritable resources
func NewIOError(message string, cause error) *AppError {
	return NewAppError(ErrTypeIOFailure, message, cause)
}

// NewMalformedCSVError creates an error for input that is not valid CSV
func NewMalformedCSVError(source string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedCSV, "malformed CSV", cause).
		WithContext("source", source)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
