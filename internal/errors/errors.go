// Package errors provides the structured error body returned by the catalogue API.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Code represents an API error code.
type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidID      Code = "INVALID_ID"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeUnavailable    Code = "UNAVAILABLE"
)

// APIError is serialized as {"code", "message"}. The cause stays server side.
type APIError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`

	cause error
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying store or runtime error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Server reports whether the error is the server's fault.
func (e *APIError) Server() bool {
	return e.HTTPStatus >= http.StatusInternalServerError
}

var (
	ErrInternal    = &APIError{Code: CodeInternal, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError}
	ErrRateLimited = &APIError{Code: CodeRateLimited, Message: "Too many requests, please try again later", HTTPStatus: http.StatusTooManyRequests}
	ErrUnavailable = &APIError{Code: CodeUnavailable, Message: "Catalogue store unavailable", HTTPStatus: http.StatusServiceUnavailable}
)

// NotFound creates a not found error for the named resource.
func NotFound(resource string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidID creates an invalid ID error for a path parameter.
func InvalidID(paramName string) *APIError {
	return &APIError{
		Code:       CodeInvalidID,
		Message:    fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidRequest creates a bad request error with a custom message.
func InvalidRequest(message string) *APIError {
	return &APIError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal wraps cause behind a generic message.
func Internal(message string, cause error) *APIError {
	if message == "" {
		message = ErrInternal.Message
	}
	return &APIError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		cause:      cause,
	}
}

// FromStore maps a repository error for one resource: a missing row is a
// 404, anything else is internal.
func FromStore(err error, resource string) *APIError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(resource)
	}
	return Internal(fmt.Sprintf("failed to load %s", resource), err)
}
