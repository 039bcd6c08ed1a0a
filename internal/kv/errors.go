package kv

import (
	"errors"
	"fmt"
)

// QuotaExceededError is returned when a write would exceed the space allotted to the store.
type QuotaExceededError struct {
	Key    string
	Limit  int64
	Needed int64
	Cause  error
}

func (e *QuotaExceededError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quota exceeded writing %q: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("quota exceeded writing %q: need %d bytes, limit %d", e.Key, e.Needed, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error {
	return e.Cause
}

// IsQuotaExceeded reports whether err is, or wraps, a QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// UnavailableError is returned when the store is disabled or unreachable.
type UnavailableError struct {
	Backend string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s store unavailable: %v", e.Backend, e.Cause)
	}
	return fmt.Sprintf("%s store unavailable", e.Backend)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// IsUnavailable reports whether err is, or wraps, an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
