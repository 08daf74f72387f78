package repositories

import "errors"

// ErrKind classifies repository failures so controllers can map them to
// HTTP statuses without string matching.
type ErrKind string

const (
	ErrKindNotFound   ErrKind = "not_found"
	ErrKindConflict   ErrKind = "conflict"
	ErrKindValidation ErrKind = "validation"
	ErrKindInternal   ErrKind = "internal"
)

type AppError struct {
	Kind    ErrKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: message}
}

// Internal wraps an underlying store error. There is no retry layer:
// every I/O failure surfaces immediately to the caller.
func Internal(message string, err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Message: message, Err: err}
}

// KindOf returns the classification of err, defaulting to internal for
// errors that did not come out of this package.
func KindOf(err error) ErrKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrKindInternal
}
