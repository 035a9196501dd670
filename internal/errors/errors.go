package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Roster error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileExists     ErrorCode = "FILE_EXISTS"     // 409
	ErrInvalidRecord  ErrorCode = "INVALID_RECORD"  // 422
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// RosterError represents a structured error with code, status, and details.
type RosterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *RosterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an employee id that is not in the directory.
func NewNotFound(id int) *RosterError {
	return &RosterError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("employee not found: %d", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileExists creates a 409 error when an export target already exists.
func NewFileExists(path string) *RosterError {
	return &RosterError{
		Code:    ErrFileExists,
		Status:  409,
		Message: fmt.Sprintf("file already exists: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInvalidRecord creates a 422 error for a directory record that failed validation.
// index is the zero-based position of the record in its source file.
func NewInvalidRecord(index int, reason string) *RosterError {
	return &RosterError{
		Code:    ErrInvalidRecord,
		Status:  422,
		Message: fmt.Sprintf("record %d is invalid: %s", index, reason),
		Details: map[string]any{"index": index, "reason": reason},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *RosterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &RosterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a RosterError with the given code.
func Is(err error, code ErrorCode) bool {
	var rErr *RosterError
	if stderrors.As(err, &rErr) {
		return rErr.Code == code
	}
	return false
}
