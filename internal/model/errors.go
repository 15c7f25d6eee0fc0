package model

import (
	"errors"
	"fmt"
)

// Sentinel values used with errors.Is by the handler layer to pick a
// response status.  Concrete error types below match them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrMissingField = errors.New("required field is missing")
)

// ValidationError reports malformed or out-of-range input that the
// client can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// MissingFieldError is a broken null contract: a value that must always
// be present was absent.  It is kept apart from ValidationError.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return e.Field + " must not be null" }

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity  string
	ID      uint64
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound is shorthand for a *NotFoundError.
func NotFound(entity string, id uint64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError reports an operation that collides with existing state,
// for instance a duplicate like or an already existing friendship.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict is shorthand for a *ConflictError with a formatted message.
func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
