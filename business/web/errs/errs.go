// Package errs provides the error types the handlers use to report request
// failures and the form those failures take in a response.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/powledger/business/sys/validate"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RequestError is used to pass an error during the request through the
// application with web specific context. Its message is safe to show
// to the client.
type RequestError struct {
	Err    error
	Status int
}

// NewRequestError wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewRequestError(err error, status int) error {
	return &RequestError{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *RequestError) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *RequestError) Unwrap() error {
	return re.Err
}

// IsRequestError checks if an error of type RequestError exists.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// GetRequestError returns a copy of the RequestError pointer.
func GetRequestError(err error) *RequestError {
	var re *RequestError
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// ToResponse converts an error into the response body and status code sent
// to the client. Errors that are not expected are hidden behind a generic
// internal error message.
func ToResponse(err error) (Response, int) {
	switch {
	case validate.IsFieldErrors(err):
		fe := validate.GetFieldErrors(err)
		return Response{
			Error:  "data validation error",
			Fields: fe.Fields(),
		}, http.StatusBadRequest

	case IsRequestError(err):
		re := GetRequestError(err)
		return Response{
			Error: re.Error(),
		}, re.Status
	}

	return Response{
		Error: http.StatusText(http.StatusInternalServerError),
	}, http.StatusInternalServerError
}
