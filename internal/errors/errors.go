package errors

import (
	stderrors "errors"
	"fmt"
)

// Validation errors are handled entirely at the service boundary and never
// reach persistence.
var (
	ErrInvalidRange     = stderrors.New("start date is after end date")
	ErrInvalidName      = stderrors.New("name must not be empty")
	ErrInvalidSelection = stderrors.New("date is not selectable")
	ErrNotFound         = stderrors.New("event not found")

	ErrUnknownParticipant    = stderrors.New("participant not found")
	ErrNoPendingConfirmation = stderrors.New("no name confirmation pending")
	ErrConfirmationPending   = stderrors.New("a name confirmation is pending")
)

// PersistenceError wraps a failed backend read or write. It is surfaced to
// the caller as recoverable; in-memory state is not rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it is nil or already part of the domain
// taxonomy (NotFound passes through untouched).
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return stderrors.As(err, &pe)
}
