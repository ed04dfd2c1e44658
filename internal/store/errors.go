package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness rule,
// such as a duplicate project key or an already-registered email.
var ErrConflict = errors.New("conflict")

// ErrNotMember is returned when an operation references a user who does
// not hold a membership in the target project.
var ErrNotMember = errors.New("not a project member")

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
