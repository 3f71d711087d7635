package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEvents means nothing matched a listing.
	ErrNoEvents = errors.New("no events found")

	// ErrEventExists means the time slot is already taken.
	ErrEventExists = errors.New("event already exists")

	// ErrNoCalendar means the user has no calendar entries at all.
	ErrNoCalendar = errors.New("no calendar found")

	// ErrEventNotFound means no event carries the requested title.
	ErrEventNotFound = errors.New("event not found")
)

// RejectionError reports a request that was refused without touching the
// stored document.
type RejectionError struct {
	Kind    error
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...any) error {
	return &RejectionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a refused request rather than a
// storage failure.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}
