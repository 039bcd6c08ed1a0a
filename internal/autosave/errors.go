package autosave

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Update after Close.
var ErrClosed = errors.New("autosave: coordinator closed")

// UnknownFieldError is returned when an edit names a field that does not exist.
type UnknownFieldError struct {
	Section string
	Field   string
}

func (e *UnknownFieldError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("unknown field %q", e.Field)
	}
	return fmt.Sprintf("unknown field %q in section %q", e.Field, e.Section)
}

// UnknownSectionError is returned when an edit names a list section that does not exist.
type UnknownSectionError struct {
	Section string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q", e.Section)
}

// SaveError reports a failed save attempt together with the status it produced.
type SaveError struct {
	Status Status
	Cause  error
}

func (e *SaveError) Error() string {
	return e.Status.Text()
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}
