package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors, fatal for the invocation
	ErrConfiguration       ErrorCode = "CONFIGURATION"
	ErrConfigLoad          ErrorCode = "CONFIG_LOAD"
	ErrProjectRootNotFound ErrorCode = "PROJECT_ROOT_NOT_FOUND"

	// Template cache errors
	ErrFetchFailed      ErrorCode = "FETCH_FAILED"
	ErrExtractFailed    ErrorCode = "EXTRACT_FAILED"
	ErrCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	// Materialization errors
	ErrCopyFailed             ErrorCode = "COPY_FAILED"
	ErrPlaceholderIO          ErrorCode = "PLACEHOLDER_IO"
	ErrUnresolvedPlaceholders ErrorCode = "UNRESOLVED_PLACEHOLDERS"
)

// Detail keys shared by the packages that build CpgenErrors.
const (
	DetailPath  = "path"
	DetailEntry = "entry"
	DetailStage = "stage"
	DetailURL   = "url"
)

// CpgenError represents a structured error with code and details
type CpgenError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CpgenError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CpgenError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CpgenError) Is(target error) bool {
	var targetErr *CpgenError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CpgenError with the given code and message
func New(code ErrorCode, message string) *CpgenError {
	return &CpgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CpgenError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CpgenError {
	return &CpgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CpgenError
func Wrap(err error, code ErrorCode, message string) *CpgenError {
	if err == nil {
		return nil
	}
	return &CpgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CpgenError {
	if err == nil {
		return nil
	}
	return &CpgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CpgenError) WithDetail(key string, value interface{}) *CpgenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CpgenError) WithDetails(details map[string]interface{}) *CpgenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cpgenErr *CpgenError
	if errors.As(err, &cpgenErr) {
		return cpgenErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CpgenError
func GetErrorCode(err error) ErrorCode {
	var cpgenErr *CpgenError
	if errors.As(err, &cpgenErr) {
		return cpgenErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CpgenError
func GetErrorDetails(err error) map[string]interface{} {
	var cpgenErr *CpgenError
	if errors.As(err, &cpgenErr) {
		return cpgenErr.Details
	}
	return nil
}

// Stage maps an error code to the pipeline stage reported to the user.
// Codes that do not belong to a stage return an empty string.
func Stage(code ErrorCode) string {
	switch code {
	case ErrFetchFailed:
		return "fetch"
	case ErrExtractFailed:
		return "extract"
	case ErrCopyFailed:
		return "copy"
	case ErrPlaceholderIO, ErrUnresolvedPlaceholders:
		return "substitute"
	case ErrConfiguration, ErrConfigLoad, ErrProjectRootNotFound:
		return "config"
	case ErrCacheUnavailable:
		return "cache"
	case ErrInvalidInput:
		return "input"
	}
	return ""
}

// IsFatal reports whether an error must end the invocation. Cache refresh
// failures are recoverable when a previously published tree exists.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrFetchFailed, ErrExtractFailed:
		return false
	}
	return err != nil
}
