package domain

import (
	"errors"
	"fmt"
)

var ErrAuthenticationRequired = errors.New("authentication required")
var ErrSessionIncomplete = errors.New("session missing identity fields")
var ErrInvalidTransition = errors.New("invalid auth state transition")

// genericAPIMessage is reported when the server returns a non-success status
// but the error body itself cannot be parsed.
const genericAPIMessage = "Network error"

// APIError is a non-success HTTP response from the backend, carrying the
// server-supplied message when one could be decoded.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: %s (status %d)", e.Message, e.Status)
}

// NewAPIError builds an APIError, substituting the generic message when the
// server gave none.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = genericAPIMessage
	}
	return &APIError{Status: status, Message: message}
}
