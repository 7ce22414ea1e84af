package client

import (
	"encoding/json"
	"io"
)

// An APIError represents an HTTP error returned by a Surplus server.
type APIError struct {
	StatusCode int
	Err        struct {
		Tag     string `json:"tag"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseAPIError(r io.Reader, code int) error {
	var aerr APIError
	dec := json.NewDecoder(r)
	if err := dec.Decode(&aerr); err != nil {
		return err
	}
	aerr.StatusCode = code
	return &aerr
}

func (e *APIError) Error() string {
	return e.Err.Message
}
