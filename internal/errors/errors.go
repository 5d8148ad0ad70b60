package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures by how the run reacts to them
type ErrorType string

const (
	// ErrTypeStructural covers unreadable archives, missing entries and
	// missing directories; the affected archive is skipped.
	ErrTypeStructural ErrorType = "STRUCTURAL"
	// ErrTypeFormat covers names that do not follow the period convention;
	// processing continues with sentinel values.
	ErrTypeFormat ErrorType = "FORMAT"
	// ErrTypeFatal aborts the run.
	ErrTypeFatal   ErrorType = "FATAL"
	ErrTypeNetwork ErrorType = "NETWORK"
	ErrTypeStorage ErrorType = "STORAGE"
	ErrTypeConfig  ErrorType = "CONFIG"
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

// NewStructuralError creates an error for an archive or directory that cannot be used
func NewStructuralError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStructural, message, cause)
}

// NewFormatError creates an error for an unexpected file name
func NewFormatError(message string) *AppError {
	return NewAppError(ErrTypeFormat, message, nil)
}

// NewFatalError creates an error that terminates the run
func NewFatalError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFatal, message, cause)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the type of the first AppError in the chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsFatal reports whether err must abort the run
func IsFatal(err error) bool {
	return TypeOf(err) == ErrTypeFatal
}

// IsStructural reports whether err is a per-archive structural failure
func IsStructural(err error) bool {
	return TypeOf(err) == ErrTypeStructural
}
