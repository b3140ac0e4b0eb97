package contract

import "fmt"

// UniqueViolationError is returned by repositories when an insert hits a unique
// constraint. Constraint carries the index name reported by the database.
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated: %v", e.Constraint, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}
