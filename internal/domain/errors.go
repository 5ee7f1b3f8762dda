package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedMessage  = errors.New("malformed message record")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidTransition = errors.New("invalid delivery transition")
	ErrMessageNotFound   = errors.New("message not found")
	ErrThreadNotFound    = errors.New("thread not found")
)

// MalformedError names the field that made a raw record unusable. It wraps
// ErrMalformedMessage so callers can match on the class with errors.Is.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed message record: field %q: %s", e.Field, e.Reason)
}

func (e *MalformedError) Unwrap() error { return ErrMalformedMessage }
