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

	// Configuration validation errors
	ErrMissingVariable     ErrorCode = "MISSING_VARIABLE"
	ErrInvalidValue        ErrorCode = "INVALID_VALUE"
	ErrConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	ErrSchemaInvalid       ErrorCode = "SCHEMA_INVALID"

	// Rule set errors
	ErrRuleSetLoad  ErrorCode = "RULESET_LOAD"
	ErrRuleSetParse ErrorCode = "RULESET_PARSE"

	// Layer errors
	ErrLayerLoad         ErrorCode = "LAYER_LOAD"
	ErrDuplicatePath     ErrorCode = "DUPLICATE_PATH"
	ErrDuplicatePriority ErrorCode = "DUPLICATE_PRIORITY"

	// Merge errors
	ErrKindConflict ErrorCode = "KIND_CONFLICT"

	// Path resolution errors
	ErrPathInjection ErrorCode = "PATH_INJECTION"
	ErrPathCollision ErrorCode = "PATH_COLLISION"

	// Render errors
	ErrUnbalancedBlock    ErrorCode = "UNBALANCED_BLOCK"
	ErrUnresolvedVariable ErrorCode = "UNRESOLVED_VARIABLE"
	ErrTemplateSyntax     ErrorCode = "TEMPLATE_SYNTAX"

	// Writer errors
	ErrDirCreate    ErrorCode = "DIR_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrArchiveWrite ErrorCode = "ARCHIVE_WRITE"
)

// StrataError represents a structured error with code and details
type StrataError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *StrataError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StrataError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *StrataError) Is(target error) bool {
	var targetErr *StrataError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new StrataError with the given code and message
func New(code ErrorCode, message string) *StrataError {
	return &StrataError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new StrataError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *StrataError {
	return &StrataError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a StrataError
func Wrap(err error, code ErrorCode, message string) *StrataError {
	if err == nil {
		return nil
	}
	return &StrataError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StrataError {
	if err == nil {
		return nil
	}
	return &StrataError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *StrataError) WithDetail(key string, value interface{}) *StrataError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *StrataError) WithDetails(details map[string]interface{}) *StrataError {
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
	var strataErr *StrataError
	if errors.As(err, &strataErr) {
		return strataErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a StrataError
func GetErrorCode(err error) ErrorCode {
	var strataErr *StrataError
	if errors.As(err, &strataErr) {
		return strataErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a StrataError
func GetErrorDetails(err error) map[string]interface{} {
	var strataErr *StrataError
	if errors.As(err, &strataErr) {
		return strataErr.Details
	}
	return nil
}
