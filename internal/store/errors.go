package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when an id is not present in its table.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique value (a username) is already taken.
	ErrConflict = errors.New("conflict")

	// ErrIntegrityBlocked is returned (wrapped in *BlockedError) when a delete
	// is refused because dependent records still reference the row.
	ErrIntegrityBlocked = errors.New("delete blocked by dependent records")
)

// BlockedError names the dependent categories that block a delete.
type BlockedError struct {
	Entity     string
	ID         int
	Dependents []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%s %d has dependent records: %s", e.Entity, e.ID, strings.Join(e.Dependents, ", "))
}

func (e *BlockedError) Unwrap() error { return ErrIntegrityBlocked }

// ValidationError maps a field (JSON name) to its messages.
// No state change happens when one is returned.
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Errors == nil {
		e.Errors = map[string][]string{}
	}
	e.Errors[field] = append(e.Errors[field], msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// PersistenceError wraps a gateway failure. The in-memory mutation that
// preceded it is NOT rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist after %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

const (
	msgRequired   = "This field is required"
	msgPositive   = "Must be greater than 0"
	msgNotAllowed = "Value is not allowed"
	msgNoClient   = "Referenced client does not exist"
	msgNoCase     = "Referenced case does not exist"
)
