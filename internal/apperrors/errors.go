// Package apperrors defines the service-level error taxonomy. Services
// return errors carrying a machine-readable kind; handlers translate the
// kind into an HTTP status without inspecting messages.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation      Kind = "validation"      // malformed or missing input
	KindNotFound        Kind = "not_found"       // referenced entity absent
	KindForbidden       Kind = "forbidden"       // authenticated but not authorized
	KindUnauthenticated Kind = "unauthenticated" // no or invalid principal
	KindConflict        Kind = "conflict"        // concurrent mutation detected, safe to retry
	KindDependency      Kind = "dependency"      // external collaborator unavailable
	KindInternal        Kind = "internal"        // everything else
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error      { return New(KindValidation, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func Dependency(message string, err error) *Error {
	return Wrap(KindDependency, message, err)
}

// KindOf returns the kind of err, or KindInternal for errors from outside
// the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
