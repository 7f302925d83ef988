package models

import (
	"errors"
	"strings"
)

// Sentinels returned by the repositories.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrReferenced     = errors.New("record is referenced by other records")
	ErrDuplicate      = errors.New("duplicate record")
	ErrOutOfRange     = errors.New("value out of range")
)

type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindValidationFailed ErrorKind = "validation_failed"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindForbidden        ErrorKind = "forbidden"
	KindConflict         ErrorKind = "conflict"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors keeps violations in the order they were found.
type FieldErrors []FieldError

func (f *FieldErrors) Add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f FieldErrors) Has(field string) bool {
	for _, e := range f {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when no violation was recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return Validation(f)
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  FieldErrors
}

func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Validation(fields FieldErrors) *AppError {
	return &AppError{Kind: KindValidationFailed, Message: "Validation failed", Fields: fields}
}

func FieldInvalid(field, message string) *AppError {
	return Validation(FieldErrors{{Field: field, Message: message}})
}

func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// KindOf reports the kind of an *AppError anywhere in err's chain, or "" otherwise.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
