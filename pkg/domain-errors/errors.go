// Package domainerrors provides coded errors for domain and service layers.
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services translate those into coded errors that transports can map
// to HTTP statuses without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for callers and transports.
type Code string

const (
	CodeValidation            Code = "validation"
	CodeBadRequest            Code = "bad_request"
	CodeNotFound              Code = "not_found"
	CodeConflict              Code = "conflict"
	CodeInvariantViolation    Code = "invariant_violation"
	CodeTimeout               Code = "timeout"
	CodeInternal              Code = "internal"
	CodeUnknownModule         Code = "unknown_module"
	CodeDuplicateRegistration Code = "duplicate_registration"
)

// Error is a coded domain error. Fields carries offending field names for
// validation failures so submissions can be corrected and retried.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithFields returns a copy of the error carrying the offending field names.
func (e *Error) WithFields(fields ...string) *Error {
	clone := *e
	clone.Fields = append([]string{}, fields...)
	return &clone
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf extracts validation field names from err, if any.
func FieldsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// Is delegates to errors.Is; kept so call sites can stay on one import.
func Is(err, target error) bool { return errors.Is(err, target) }
