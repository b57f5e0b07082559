package recognize

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a session operation is invoked from a
// state that does not allow it.
var ErrInvalidTransition = errors.New("invalid session transition")

// InvalidInputError reports caller input that the recognizer refuses to act on.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
