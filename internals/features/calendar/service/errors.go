// file: internals/features/calendar/service/errors.go
package service

import (
	"errors"

	"emiscal_backend/internals/features/calendar/repository"
)

var (
	ErrNotFound        = repository.ErrNotFound
	ErrConflict        = repository.ErrDuplicate
	ErrUnknownCategory = errors.New("category does not exist")
	ErrUnknownCalendar = errors.New("calendar does not exist")
	ErrNoLayouts       = errors.New("no layout has been saved yet")
)

// InputError wraps a rejected field so controllers can answer 422 with a field map.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

func inputErr(field string, err error) error { return &InputError{Field: field, Err: err} }
