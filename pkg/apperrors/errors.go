package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can pick a status code.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindPreconditionFailed Kind = "precondition_failed"
	KindForbidden          Kind = "forbidden"
	KindInvalidState       Kind = "invalid_state"
	KindValidation         Kind = "validation"
	KindInternal           Kind = "internal"
)

// AppError carries a kind and a client-safe message on top of the cause.
type AppError struct {
	kind    Kind
	message string
	err     error
	fields  map[string]string
}

// New creates an AppError of the given kind.
func New(kind Kind, message string, err error) *AppError {
	return &AppError{kind: kind, message: message, err: err}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

func (e *AppError) Kind() Kind {
	return e.kind
}

// Message returns the message without the wrapped cause.
func (e *AppError) Message() string {
	return e.message
}

// WithFields attaches field-level validation messages.
func (e *AppError) WithFields(fields map[string]string) *AppError {
	cp := *e
	cp.fields = fields
	return &cp
}

func (e *AppError) Fields() map[string]string {
	return e.fields
}

func NotFound(format string, args ...any) *AppError {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...any) *AppError {
	return New(KindConflict, fmt.Sprintf(format, args...), nil)
}

func PreconditionFailed(format string, args ...any) *AppError {
	return New(KindPreconditionFailed, fmt.Sprintf(format, args...), nil)
}

func Forbidden(format string, args ...any) *AppError {
	return New(KindForbidden, fmt.Sprintf(format, args...), nil)
}

func InvalidState(format string, args ...any) *AppError {
	return New(KindInvalidState, fmt.Sprintf(format, args...), nil)
}

func Validation(format string, args ...any) *AppError {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

// Internal wraps an unexpected failure (storage, broker) under a generic message.
func Internal(message string, err error) *AppError {
	return New(KindInternal, message, err)
}

// KindOf reports the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.kind == kind
	}
	return false
}
