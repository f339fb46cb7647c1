package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Filesystem errors
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeIsADirectory     ErrorCode = "IS_A_DIRECTORY"
	ErrCodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeUnknown          ErrorCode = "UNKNOWN"

	// Configuration errors
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Scaffolding errors
	ErrCodeValidation            ErrorCode = "VALIDATION_FAILURE"
	ErrCodeUnresolvedPlaceholder ErrorCode = "UNRESOLVED_PLACEHOLDER"
	ErrCodeSessionNotFound       ErrorCode = "SESSION_NOT_FOUND"
)

// ScaffoldError represents a structured error with context
type ScaffoldError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ScaffoldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScaffoldError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ScaffoldError) WithDetail(key string, value interface{}) *ScaffoldError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *ScaffoldError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ScaffoldError
func New(code ErrorCode, message string) *ScaffoldError {
	return &ScaffoldError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ScaffoldError
func Wrap(err error, code ErrorCode, message string) *ScaffoldError {
	return &ScaffoldError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first ScaffoldError in err's chain.
func As(err error) (*ScaffoldError, bool) {
	for err != nil {
		if se, ok := err.(*ScaffoldError); ok {
			return se, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific ScaffoldError code
func Is(err error, code ErrorCode) bool {
	se, ok := As(err)
	return ok && se.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	se, ok := As(err)
	if !ok {
		return ""
	}
	return se.Code
}
