package desk

import (
	"errors"
	"fmt"
)

var (
	ErrDateUnavailable = errors.New("date not available")
	ErrUnknownDesk     = errors.New("desk does not exist")
	ErrDeskTaken       = errors.New("desk already reserved")
	ErrAlreadyReserved = errors.New("user already holds a desk")
	ErrNotAllowed      = errors.New("user not allowed")
	ErrAlreadyFree     = errors.New("desk already free")
	ErrNotHolder       = errors.New("desk held by another user")
	ErrDeskNotFound    = errors.New("no desk information")

	// ErrNoDesks is returned by OpenDates when there is no metadata to open
	// slots for.
	ErrNoDesks = errors.New("no desks configured")
)

// RejectionError is a refused desk operation. Message is the text returned
// to the caller.
type RejectionError struct {
	Kind    error
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func (e *RejectionError) Unwrap() error { return e.Kind }

func reject(kind error, format string, args ...any) error {
	return &RejectionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a refused operation.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}
