package pinapi

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrMissingURL indicates the API base URL was not provided
	ErrMissingURL = errors.New("pin API URL is required")
	// ErrMissingKey indicates the bearer key was not provided
	ErrMissingKey = errors.New("pin API key is required")
	// ErrMalformedKey indicates the bearer key is not three dot-separated segments
	ErrMalformedKey = errors.New("pin API key must have exactly three dot-separated segments")
	// ErrInvalidExtension indicates a broken extension descriptor
	ErrInvalidExtension = errors.New("invalid extension descriptor")
)

// APIError represents a pin API error response: the JSON body the server
// returned, plus the HTTP status that carried it.
type APIError struct {
	Status int
	Body   map[string]any
}

// Error implements the error interface
func (e *APIError) Error() string {
	if msg, ok := e.Body["error"].(string); ok {
		return fmt.Sprintf("pin API error: status %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("pin API error: status %d", e.Status)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.Status == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.Status == 401 || e.Status == 403
}
