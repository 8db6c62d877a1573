package api

import (
	"errors"
	"fmt"
)

// Machine-readable error codes attached to APIError. Codes other than
// these pass through from the backend's error body untouched.
const (
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeTimeout            = "TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// RateLimitMessage is the fixed human message for any 429, regardless of
// what the backend put in the response body.
const RateLimitMessage = "Rate limit exceeded. Please contact support@codify.app to request a higher limit."

// APIError is the typed failure value produced at the gateway boundary.
// UI code never constructs one directly.
type APIError struct {
	Message string
	Status  int    // HTTP status, 0 when the request never got a response
	Code    string // machine code, empty when the backend provided none
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// IsAPIError extracts an APIError from an error chain.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && (apiErr.Status == 429 || apiErr.Code == CodeRateLimitExceeded)
}

// IsUnauthorized reports whether err is an auth rejection (expired or
// invalid token, bad credentials).
func IsUnauthorized(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.Status == 401
}
