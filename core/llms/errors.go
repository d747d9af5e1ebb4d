package llms

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a model response that carried neither a
// candidate text nor a structured error payload.
var ErrMalformedResponse = errors.New("model response carried no candidate text")

// APIError is a structured error payload returned by a model endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model request failed (%d): %s", e.StatusCode, e.Message)
}
