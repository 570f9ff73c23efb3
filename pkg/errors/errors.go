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
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Snapshot errors
	ErrSnapshotCreate   ErrorCode = "SNAPSHOT_CREATE"
	ErrSnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	ErrManifestWrite    ErrorCode = "MANIFEST_WRITE"
	ErrManifestParse    ErrorCode = "MANIFEST_PARSE"
	ErrMarkerWrite      ErrorCode = "MARKER_WRITE"

	// Restore errors
	ErrRestoreExecute ErrorCode = "RESTORE_EXECUTE"
	ErrRestorePlan    ErrorCode = "RESTORE_PLAN"

	// Prune errors
	ErrPruneDelete ErrorCode = "PRUNE_DELETE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCopy     ErrorCode = "FILE_COPY"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// DotbackError represents a structured error with code and details
type DotbackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotbackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotbackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotbackError) Is(target error) bool {
	var targetErr *DotbackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotbackError with the given code and message
func New(code ErrorCode, message string) *DotbackError {
	return &DotbackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotbackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotbackError {
	return &DotbackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotbackError
func Wrap(err error, code ErrorCode, message string) *DotbackError {
	if err == nil {
		return nil
	}
	return &DotbackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotbackError {
	if err == nil {
		return nil
	}
	return &DotbackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotbackError) WithDetail(key string, value interface{}) *DotbackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dbErr *DotbackError
	if errors.As(err, &dbErr) {
		return dbErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotbackError
func GetErrorCode(err error) ErrorCode {
	var dbErr *DotbackError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ErrUnknown
}
