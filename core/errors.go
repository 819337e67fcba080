package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when client input fails field-level rules.
// It is recovered at the request boundary and rendered as a field -> message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ConstraintError is returned when a uniqueness or referential rule would be
// broken, with the offending field(s) identified.
type ConstraintError struct {
	Err    error
	Fields []FieldError
}

func NewConstraintError(err error, flds ...FieldError) error {
	return &ConstraintError{err, flds}
}

func (err ConstraintError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// StorageError wraps a transient storage-layer fault; safe for the caller to retry.
type StorageError struct {
	Err error
}

func NewStorageError(err error) error {
	return &StorageError{err}
}

func (err StorageError) Error() string {
	if err.Err == nil {
		return "storage unavailable"
	}
	return err.Err.Error()
}

func IsStorageError(err error) bool {
	_, ok := errors.Cause(err).(*StorageError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
