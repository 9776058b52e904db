package client

import (
	"encoding/json"
	"fmt"
)

// APIError represents a structured error response from the back-office API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
	// CurrentVersion carries the live version token on a version conflict,
	// so the caller can re-read, re-apply, and retry.
	CurrentVersion string `json:"current_version,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("backoffice: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("backoffice: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 404
	}
	return false
}

// IsConflict returns true if the error is any 409 conflict.
func IsConflict(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 409
	}
	return false
}

// IsVersionConflict returns true if the error is a stale version token
// conflict. ConflictVersion returns the token to retry with.
func IsVersionConflict(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 409 && e.Code == "version_conflict"
	}
	return false
}

// ConflictVersion returns the live version token from a version conflict
// error, or "" if err is not one.
func ConflictVersion(err error) string {
	if e, ok := err.(*APIError); ok {
		return e.CurrentVersion
	}
	return ""
}

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool {
	if e, ok := err.(*APIError); ok {
		return e.StatusCode == 429
	}
	return false
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
