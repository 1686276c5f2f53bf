package users

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("user not found")

// ValidationError reports required fields that are missing or blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "all fields are required; missing " + strings.Join(e.Fields, ", ")
}

// DuplicateError reports that a record with the same name, age and city
// already exists.
type DuplicateError struct {
	ID int64
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("user already exists with id %d", e.ID)
}

// PersistenceError wraps a failure to write the collection.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to persist users: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
