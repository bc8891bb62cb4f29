package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// FromError maps a domain error onto the HTTP status handlers return.
func FromError(err error) *HTTPError {
	switch {
	case stderrors.Is(err, ErrInvalidRange),
		stderrors.Is(err, ErrInvalidName),
		stderrors.Is(err, ErrInvalidSelection):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case stderrors.Is(err, ErrNotFound),
		stderrors.Is(err, ErrUnknownParticipant):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case stderrors.Is(err, ErrNoPendingConfirmation),
		stderrors.Is(err, ErrConfirmationPending):
		return NewHTTPError(http.StatusConflict, err.Error())
	case IsPersistence(err):
		return NewHTTPError(http.StatusBadGateway, "storage backend unavailable")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
