package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes used across the keygen packages
const (
	// Generic errors
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Key material errors
	ErrCodeKeyGeneration ErrorCode = "KEY_GENERATION_FAILED"
	ErrCodeKeyFormat     ErrorCode = "KEY_FORMAT_INVALID"
	ErrCodeEncoding      ErrorCode = "ENCODING_FAILED"
	ErrCodeVerification  ErrorCode = "VERIFICATION_FAILED"

	// Output errors
	ErrCodeOutput ErrorCode = "OUTPUT_FAILED"
)

// Process exit statuses returned by ExitCode
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitInvalidConfig = 2
	ExitKeyGeneration = 3
	ExitKeyFormat     = 4
	ExitEncoding      = 5
	ExitVerification  = 6
	ExitOutput        = 7
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message
	Details map[string]interface{} // Optional additional details
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ExitCode returns the process exit status for this error
func (e *Error) ExitCode() int {
	return MapErrorCodeToExitCode(e.Code)
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetDetails extracts the details from an error
// Returns nil if the error is not a structured Error
func GetDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// ExitCode maps any error to a process exit status.
// A nil error maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return MapErrorCodeToExitCode(GetCode(err))
}

// MapErrorCodeToExitCode maps error codes to process exit statuses
func MapErrorCodeToExitCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return ExitInvalidConfig
	case ErrCodeKeyGeneration:
		return ExitKeyGeneration
	case ErrCodeKeyFormat:
		return ExitKeyFormat
	case ErrCodeEncoding:
		return ExitEncoding
	case ErrCodeVerification:
		return ExitVerification
	case ErrCodeOutput, ErrCodeAlreadyExists:
		return ExitOutput
	case ErrCodeInternal:
		fallthrough
	default:
		return ExitFailure
	}
}

// Common error constructors for frequently used errors

// KeyGeneration wraps a failure to produce key material
func KeyGeneration(err error, message string) *Error {
	if err == nil {
		return New(ErrCodeKeyGeneration, message)
	}
	return Wrap(err, ErrCodeKeyGeneration, message)
}

// KeyFormat wraps a failure to parse or accept key material
func KeyFormat(err error, message string) *Error {
	if err == nil {
		return New(ErrCodeKeyFormat, message)
	}
	return Wrap(err, ErrCodeKeyFormat, message)
}

// Encoding wraps a serialization failure
func Encoding(err error, message string) *Error {
	if err == nil {
		return New(ErrCodeEncoding, message)
	}
	return Wrap(err, ErrCodeEncoding, message)
}

// Verification wraps a failed consistency check between artifacts
func Verification(err error, message string) *Error {
	if err == nil {
		return New(ErrCodeVerification, message)
	}
	return Wrap(err, ErrCodeVerification, message)
}

// InvalidInput creates an "invalid input" error
func InvalidInput(field, reason string) *Error {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason))
}

// InvalidConfig creates an "invalid config" error
func InvalidConfig(field, reason string) *Error {
	return New(ErrCodeInvalidConfig, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetail("field", field)
}

// AlreadyExists creates an "already exists" error
func AlreadyExists(resourceType, identifier string) *Error {
	return Newf(ErrCodeAlreadyExists, "%s already exists: %s", resourceType, identifier)
}

// Output wraps a failure to persist artifacts
func Output(err error, message string) *Error {
	return Wrap(err, ErrCodeOutput, message)
}
