package sperror

import "net/http"

// StatusExpiredAccessToken is an HTTP status code used when an access token is expired.
const StatusExpiredAccessToken = 498

type (
	// An SPError represents the error format that can be rendered by the surplus server.
	SPError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if sperr, ok := err.(*SPError); ok {
		return sperr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new SPError with the given message.
func New(message string) *SPError {
	return &SPError{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new SPError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *SPError {
	return &SPError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Error implements error interface.
func (e *SPError) Error() string {
	return e.FieldError.Message
}
