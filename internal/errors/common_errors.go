package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNoData            ErrorType = "NO_DATA"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeTypeKind          ErrorType = "TYPE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeShapeMismatch     ErrorType = "SHAPE_MISMATCH"
	ErrTypeEmptyInput        ErrorType = "EMPTY_INPUT"
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeConfig            ErrorType = "CONFIG"
	ErrTypeStorage           ErrorType = "STORAGE"
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

// Is reports whether target is an AppError of the same type. This lets the
// package sentinels below match any error of their kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
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

// Sentinels for errors.Is checks. Never return these directly; use the
// constructors so every error carries its own message and context.
var (
	ErrNoData            = &AppError{Type: ErrTypeNoData, Message: "no input data found"}
	ErrParse             = &AppError{Type: ErrTypeParsing, Message: "content could not be parsed"}
	ErrTypeKind          = &AppError{Type: ErrTypeTypeKind, Message: "non-numeric or wrongly typed input"}
	ErrValidation        = &AppError{Type: ErrTypeValidation, Message: "precondition violated"}
	ErrShapeMismatch     = &AppError{Type: ErrTypeShapeMismatch, Message: "datasets have unequal day counts"}
	ErrEmptyInput        = &AppError{Type: ErrTypeEmptyInput, Message: "no datasets provided for analysis"}
	ErrUnsupportedFormat = &AppError{Type: ErrTypeUnsupportedFormat, Message: "unsupported data file format"}
)

// Helper functions for common error types

// NewNoDataError creates an error for a directory with no matching input files
func NewNoDataError(dir, pattern string) *AppError {
	return NewAppError(ErrTypeNoData, fmt.Sprintf("no files matching %s found in path %s", pattern, dir), nil).
		WithContext("dir", dir).
		WithContext("pattern", pattern)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewTypeError creates an error for non-numeric or wrongly typed input
func NewTypeError(message string) *AppError {
	return NewAppError(ErrTypeTypeKind, message, nil)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewShapeMismatchError creates an error for vectors or tables of unequal length
func NewShapeMismatchError(want, got, index int) *AppError {
	return NewAppError(ErrTypeShapeMismatch,
		fmt.Sprintf("dataset %d has %d days, expected %d", index, got, want), nil).
		WithContext("index", index).
		WithContext("want", want).
		WithContext("got", got)
}

// NewEmptyInputError creates an error for an analysis over zero datasets
func NewEmptyInputError() *AppError {
	return NewAppError(ErrTypeEmptyInput, "no data provided for analysis", nil)
}

// NewUnsupportedFormatError creates an error for an unregistered file extension
func NewUnsupportedFormatError(extension string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat,
		fmt.Sprintf("unsupported data file format: %q", extension), nil).
		WithContext("extension", extension)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
