package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Radar error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrScanInProgress   ErrorCode = "SCAN_IN_PROGRESS"  // 409
	ErrInvalidResult    ErrorCode = "INVALID_RESULT"    // 422
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED" // 502
)

// RadarError represents a structured error with code, status, and details.
type RadarError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RadarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RadarError {
	return &RadarError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing session or record.
func NewNotFound(what, identifier string) *RadarError {
	return &RadarError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewScanInProgress creates a 409 error when a scan is already running.
func NewScanInProgress() *RadarError {
	return &RadarError{
		Code:    ErrScanInProgress,
		Status:  409,
		Message: "a scan is already in progress",
	}
}

// NewInvalidResult creates a 422 error when generator output is not a
// non-empty JSON array of records.
func NewInvalidResult(reason string) *RadarError {
	return &RadarError{
		Code:    ErrInvalidResult,
		Status:  422,
		Message: fmt.Sprintf("invalid or empty result: %s", reason),
		Details: map[string]any{"reason": reason},
	}
}

// NewCancelled creates a 499 error when an operation's context ends.
func NewCancelled(operation string) *RadarError {
	return &RadarError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewGenerationFailed creates a 502 error when the generator call fails.
func NewGenerationFailed(err error) *RadarError {
	msg := "generation failed"
	if err != nil {
		msg = fmt.Sprintf("generation failed: %v", err)
	}
	return &RadarError{
		Code:    ErrGenerationFailed,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RadarError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RadarError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if err is, or wraps, a RadarError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *RadarError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}

// As returns the RadarError carried by err, if any.
func As(err error) (*RadarError, bool) {
	var rErr *RadarError
	if stderrors.As(err, &rErr) {
		return rErr, true
	}
	return nil, false
}
