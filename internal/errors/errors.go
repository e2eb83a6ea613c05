// Package errors provides custom error types for the portfolio chat client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrLoginRequired   = errors.New("login required")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNotConfigured   = errors.New("not configured")
)

// AuthError represents an authentication failure
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: session may have expired"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents a non-success response from a remote service
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	// Detail is the server-supplied "detail" field, when the body had one
	Detail string
	// Body is the raw (truncated) response body for diagnostics
	Body string
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, msg)
}

// Is matches ErrAuthFailed for 401 and 403 responses
func (e *APIError) Is(target error) bool {
	if target == ErrAuthFailed {
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError carrying the parsed detail and raw body
func NewAPIErrorWithBody(statusCode int, endpoint, message, detail, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Detail:     detail,
		Body:       body,
	}
}

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Cause: cause}
}

// NewNetworkErrorWithEndpoint creates a NetworkError bound to an endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (at %s)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsAuthError reports whether err is an authentication failure, including
// 401/403 responses and a missing login
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrLoginRequired)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is a malformed response
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetDetail returns the server-supplied detail carried by err, or ""
func GetDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// UserMessage summarises err as the single line shown in the chat log.
// A server-supplied detail wins over the status-based message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if detail := GetDetail(err); detail != "" {
		return fmt.Sprintf("Error: %s", detail)
	}
	if status := GetHTTPStatus(err); status > 0 {
		return fmt.Sprintf("Error: request failed with status %d", status)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Error: could not reach the chat service. Check your connection and try again."
	}
	if IsParseError(err) {
		return "Error: the chat service sent a response that could not be read."
	}
	if errors.Is(err, ErrLoginRequired) {
		return "Error: your session has expired. Please log in again."
	}
	return fmt.Sprintf("Error: %v", err)
}
