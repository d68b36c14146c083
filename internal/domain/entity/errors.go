package entity

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrEmptySelection = errors.New("empty selection")
	ErrStaleResponse  = errors.New("stale response")
	ErrBusy           = errors.New("action already in progress")
	ErrCollaborator   = errors.New("collaborator error")
	ErrForbidden      = errors.New("forbidden")
)

// ValidationError is a local, recoverable input error. Message is shown to
// the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CollaboratorError is a failed call to the backend or oracle. Message holds
// the server supplied text when there was one.
type CollaboratorError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *CollaboratorError) Error() string {
	switch {
	case e.Message != "":
		return e.Op + ": " + e.Message
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": request failed"
	}
}

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// UserMessage picks the text shown for a failed action: a validation
// message, then a server supplied message, then fallback.
func UserMessage(err error, fallback string) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		return vErr.Message
	}
	var cErr *CollaboratorError
	if errors.As(err, &cErr) && cErr.Message != "" {
		return cErr.Message
	}
	return fallback
}
