package completions

import (
	"errors"
	"fmt"
)

var ErrEmptyCompletion = errors.New("no content returned in the response")

// ServiceError is any failed completion request: transport, timeout, quota,
// bad status or malformed response.
type ServiceError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

var _ error = new(ServiceError)

func (s *ServiceError) Error() string {
	if s.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", s.Provider, s.Model, s.StatusCode, s.Err)
	}
	return fmt.Sprintf("%s %s: %v", s.Provider, s.Model, s.Err)
}

func (s *ServiceError) Unwrap() error {
	return s.Err
}

// APIError is the error object of an OpenAI-compatible error response.
type APIError struct {
	Code    any     `json:"code,omitempty"`
	Message string  `json:"message,omitempty"`
	Param   *string `json:"param,omitempty"`
	Type    string  `json:"type,omitempty"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return e.Type + ": " + e.Message
	}
	return e.Message
}

type ErrorResponse struct {
	Error *APIError `json:"error,omitempty"`
}
