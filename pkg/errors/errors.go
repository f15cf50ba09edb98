// Package errors provides the sentinel error type used across
// shastity packages: a named error that can wrap a cause while
// remaining matchable with errors.Is.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New creates a named sentinel error.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a named error with an optional wrapped cause.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	return e.msg
}

// Unwrap the cause, if any
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap returns a new error with the same name carrying err as its
// cause. The receiver is left untouched, so package-level sentinels
// may be wrapped concurrently.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err}
}

// Is matches errors sharing the same name, so a wrapped copy of a
// sentinel still matches the sentinel.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.msg == t.msg
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard library errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard library errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
