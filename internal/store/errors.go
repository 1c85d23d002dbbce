package store

import "fmt"

// NotFoundError is returned when a lookup by ID finds no row, mirroring
// the teacher's repository.NotFoundError (internal/repository/postgres/
// errors.go).
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is allows errors.Is(err, &NotFoundError{}) to match any NotFoundError
// regardless of Resource/ID, the same pattern the teacher's error types
// use for errors.Is compatibility.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
