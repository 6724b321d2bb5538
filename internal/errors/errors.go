package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// TypeNotFound indicates the requested type is not in the graph
	TypeNotFound ErrorCode = "TYPE_NOT_FOUND"
	// CallableNotFound indicates the requested callable is not in the graph
	CallableNotFound ErrorCode = "CALLABLE_NOT_FOUND"
	// GraphInvalid indicates a graph document failed validation
	GraphInvalid ErrorCode = "GRAPH_INVALID"
	// AliasCycle indicates a circular alias chain
	AliasCycle ErrorCode = "ALIAS_CYCLE"
	// WalkCancelled indicates a cascade walk was cancelled before completion
	WalkCancelled ErrorCode = "WALK_CANCELLED"
	// StoreUnavailable indicates the graph store could not be opened
	StoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ExtractUnavailable indicates source extraction is not available in this build
	ExtractUnavailable ErrorCode = "EXTRACT_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// StablError represents a stabl error with a stable code and message
type StablError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new StablError
func New(code ErrorCode, message string, cause error) *StablError {
	return &StablError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *StablError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *StablError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *StablError) WithDetails(details interface{}) *StablError {
	e.Details = details
	return e
}

// CodeOf returns the error code carried by err, or InternalError for
// anything that is not a StablError.
func CodeOf(err error) ErrorCode {
	var se *StablError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return InternalError
}
