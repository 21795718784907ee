// Package apperror holds the error taxonomy shared by services, stores and handlers.
package apperror

import (
	"errors"
	"strings"
)

// ValidationError reports malformed or missing input. Fields lists every
// offending field when more than one can be wrong.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// ConflictError means the current state already satisfies or contradicts the request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthError covers missing/invalid credentials and, with Forbidden set,
// an authenticated actor acting on something that is not theirs.
type AuthError struct {
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string { return e.Message }

// NotFoundError means a referenced entity is absent.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// DependencyError wraps a failure of an external collaborator.
type DependencyError struct {
	Service string
	Err     error
}

func (e *DependencyError) Error() string { return e.Service + ": " + e.Err.Error() }

func (e *DependencyError) Unwrap() error { return e.Err }

func Validation(msg string, fields ...string) error {
	return &ValidationError{Message: msg, Fields: fields}
}

func Conflict(msg string) error { return &ConflictError{Message: msg} }

func Unauthorized(msg string) error { return &AuthError{Message: msg} }

func Forbidden(msg string) error { return &AuthError{Message: msg, Forbidden: true} }

func NotFound(msg string) error { return &NotFoundError{Message: msg} }

func Dependency(service string, err error) error { return &DependencyError{Service: service, Err: err} }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
