package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation references an event id that is
// not in the store.
var ErrNotFound = errors.New("event not found")

// ValidationError reports a malformed draft or request. The caller can
// recover by correcting the input; the service never retries on its behalf.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports that a draft's interval overlaps one or more active
// events. The service never auto-selects an alternative; callers are expected
// to ask for suggestions and resubmit.
type ConflictError struct {
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	if len(e.ConflictingIDs) == 0 {
		return "event conflicts with existing events"
	}
	return fmt.Sprintf("event conflicts with existing events: %s", strings.Join(e.ConflictingIDs, ", "))
}
