package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/career-pathfinder/internal/schemas"
)

// RequestError is a client error with an explicit status.
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var verr *schemas.ValidationError
	var rerr *RequestError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &rerr):
		return rerr.Status
	default:
		return http.StatusInternalServerError
	}
}
