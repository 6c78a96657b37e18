package models

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a group or record that is absent, expired, or
// already purged. The three cases are indistinguishable to callers.
var ErrNotFound = errors.New("group or file not found or expired")

// ValidationError reports malformed or over-limit ingestion input.
// Limit names the violated limit so callers can report it.
type ValidationError struct {
	Limit string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Limit == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Limit, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError naming the violated limit.
func NewValidationError(limit, format string, args ...any) *ValidationError {
	return &ValidationError{Limit: limit, Err: fmt.Errorf(format, args...)}
}

// StorageError reports a durable read or write failure. It is distinct
// from ErrNotFound so callers can choose to retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// StreamError reports a failure while writing archive output. It is
// fatal to the single streaming operation and never retried.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("archive stream: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err classifies as a not-found outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
