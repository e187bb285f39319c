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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Instance errors
	ErrNoRoot         ErrorCode = "NO_ROOT"
	ErrProfileMissing ErrorCode = "PROFILE_MISSING"

	// Rule document errors
	ErrRulesParse   ErrorCode = "RULES_PARSE"
	ErrRulesInvalid ErrorCode = "RULES_INVALID"
	ErrRegexCompile ErrorCode = "REGEX_COMPILE"

	// Mod and plugin errors
	ErrModUnknown     ErrorCode = "MOD_UNKNOWN"
	ErrPluginDiscover ErrorCode = "PLUGIN_DISCOVER"
	ErrPluginInsert   ErrorCode = "PLUGIN_INSERT"
	ErrPluginActivate ErrorCode = "PLUGIN_ACTIVATE"
	ErrGroupSync      ErrorCode = "GROUP_SYNC"
	ErrWatchSetup     ErrorCode = "WATCH_SETUP"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// LoadoutError represents a structured error with code and details
type LoadoutError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LoadoutError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LoadoutError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LoadoutError) Is(target error) bool {
	var targetErr *LoadoutError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LoadoutError with the given code and message
func New(code ErrorCode, message string) *LoadoutError {
	return &LoadoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LoadoutError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LoadoutError {
	return &LoadoutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LoadoutError
func Wrap(err error, code ErrorCode, message string) *LoadoutError {
	if err == nil {
		return nil
	}
	return &LoadoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LoadoutError {
	if err == nil {
		return nil
	}
	return &LoadoutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LoadoutError) WithDetail(key string, value interface{}) *LoadoutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LoadoutError) WithDetails(details map[string]interface{}) *LoadoutError {
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
	var loadoutErr *LoadoutError
	if errors.As(err, &loadoutErr) {
		return loadoutErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LoadoutError
func GetErrorCode(err error) ErrorCode {
	var loadoutErr *LoadoutError
	if errors.As(err, &loadoutErr) {
		return loadoutErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LoadoutError
func GetErrorDetails(err error) map[string]interface{} {
	var loadoutErr *LoadoutError
	if errors.As(err, &loadoutErr) {
		return loadoutErr.Details
	}
	return nil
}
