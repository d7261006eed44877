// Package errors classifies provider and input errors for omnichat.
//
// The gateway propagates SDK errors unchanged, so classification works
// directly against genai.APIError, the type the provider SDK surfaces
// request failures as.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"google.golang.org/genai"
)

// Sentinel errors for common cases
var (
	ErrNoAPIKey        = errors.New("no API key configured")
	ErrInvalidResponse = errors.New("invalid response format")
)

// ParseError represents malformed input data
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with the ErrInvalidResponse sentinel
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message string) *ParseError {
	return &ParseError{Message: message}
}

// GetHTTPStatus extracts an HTTP status code from an error chain,
// returning 0 when none is present. The SDK returns genai.APIError by
// value; the pointer form is matched as well.
func GetHTTPStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}

// IsAuthError reports whether the error is an authentication failure.
func IsAuthError(err error) bool {
	switch GetHTTPStatus(err) {
	case 401, 403:
		return true
	}
	return errors.Is(err, ErrNoAPIKey)
}

// IsRateLimitError reports whether the error is a usage limit rejection.
func IsRateLimitError(err error) bool {
	return GetHTTPStatus(err) == 429
}

// IsTimeoutError reports whether the error is a timeout.
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if GetHTTPStatus(err) == 504 {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNetworkError reports whether the error looks like a transport failure.
func IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable")
}
