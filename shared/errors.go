package shared

import "fmt"

// PreconditionError is returned when an operation is invoked without the records it needs.
// It signals a programming error; retrying will not help.
type PreconditionError struct {
	Op      string
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: must set a %s", e.Op, e.Missing)
}

// NotFoundError is returned when a referenced record id cannot be resolved.
type NotFoundError struct {
	Kind string
	ID   interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id=%v not found", e.Kind, e.ID)
}
