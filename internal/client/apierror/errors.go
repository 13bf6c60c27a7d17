// Package apierror defines the error taxonomy shared by the API client, the
// domain services, the auth session and the error handler.
//
//   - *Error: the server answered (or the envelope said) the call failed.
//   - *ValidationError: an *Error with status 400 that names the offending field.
//   - *NetworkError: no usable response (connection failure, timeout).
//
// Match with errors.As; a *ValidationError also matches *Error.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoRefreshToken is wrapped by the authentication error raised when a
// refresh is needed but no refresh token is stored.
var ErrNoRefreshToken = errors.New("no refresh token available")

// Error is a failed API call with an HTTP status and a machine code.
type Error struct {
	Status  int
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func New(status int, code Code, message string, details map[string]any) *Error {
	return &Error{Status: status, Code: code, Message: message, Details: details}
}

// Wrap is New with an underlying cause kept for errors.Is.
func Wrap(status int, code Code, message string, cause error) *Error {
	return &Error{Status: status, Code: code, Message: message, cause: cause}
}

// Unauthenticated builds the 401 AUTHENTICATION_ERROR used for refresh failures.
func Unauthenticated(message string, cause error) *Error {
	return Wrap(http.StatusUnauthorized, CodeAuthentication, message, cause)
}

func (e *Error) Error() string {
	if e == nil {
		return "api error: <nil>"
	}
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// IsAuth reports a 401 or an AUTHENTICATION_ERROR code.
func (e *Error) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Code == CodeAuthentication
}

// apiError lets ValidationError embed *Error without a field named Error
// clashing with its Error method.
type apiError = Error

// ValidationError is a 400 VALIDATION_ERROR naming the rejected input.
type ValidationError struct {
	*apiError
	Field string
	Value any
}

func NewValidation(message, field string, value any) *ValidationError {
	return &ValidationError{
		apiError: New(http.StatusBadRequest, CodeValidation, message, map[string]any{"field": field}),
		Field:    field,
		Value:    value,
	}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation error: <nil>"
	}
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// Unwrap exposes the embedded *Error so errors.As(err, **Error) succeeds.
func (e *ValidationError) Unwrap() error {
	if e == nil || e.apiError == nil {
		return nil
	}
	return e.apiError
}

// NetworkError means the request never produced a server response.
type NetworkError struct {
	Message string
	cause   error
}

func NewNetwork(message string, cause error) *NetworkError {
	if message == "" {
		message = "Network connection failed"
	}
	return &NetworkError{Message: message, cause: cause}
}

func (e *NetworkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("network error: %s: %v", e.Message, e.cause)
	}
	return "network error: " + e.Message
}

func (e *NetworkError) Unwrap() error { return e.cause }

// AsAPI unwraps err to *Error.
func AsAPI(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports whether err is (or wraps) a *NetworkError.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsAPI(err); ok {
		return apiErr.Status
	}
	return 0
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	apiErr, ok := AsAPI(err)
	return ok && apiErr.IsAuth()
}

// IsRetryable: network errors always, API errors only for 5xx.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsNetwork(err) {
		return true
	}
	if apiErr, ok := AsAPI(err); ok {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return false
}
