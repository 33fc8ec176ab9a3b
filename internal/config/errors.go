package config

import (
	"errors"
	"fmt"
)

// ErrorType is the category of a configuration diagnostic. None of them are
// fatal: each one names the layer or field that was skipped.
type ErrorType int

const (
	// ErrTypeDocumentAbsent means a document did not exist or was empty
	ErrTypeDocumentAbsent ErrorType = iota
	// ErrTypeDocumentInvalid means a document failed to parse or had the wrong root
	ErrTypeDocumentInvalid
	// ErrTypeMalformedField means one field's text could not be converted
	ErrTypeMalformedField
	// ErrTypeSecureStore means a secure-store read or write failed
	ErrTypeSecureStore
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeDocumentAbsent:
		return "Document Absent"
	case ErrTypeDocumentInvalid:
		return "Document Invalid"
	case ErrTypeMalformedField:
		return "Malformed Field"
	case ErrTypeSecureStore:
		return "Secure Store Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is a non-fatal diagnostic produced while resolving configuration.
type Error struct {
	Type    ErrorType
	Message string
	Path    string // document path, if any
	Field   string // dotted field name for malformed values
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	where := e.Path
	if e.Field != "" {
		where = fmt.Sprintf("%s: %s", e.Path, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Type, where, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, where, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newAbsentError(path string, err error) *Error {
	return &Error{
		Type:    ErrTypeDocumentAbsent,
		Message: "document not found, keeping previous layer",
		Path:    path,
		Err:     err,
	}
}

func newInvalidError(path string, err error) *Error {
	return &Error{
		Type:    ErrTypeDocumentInvalid,
		Message: "document could not be parsed, keeping previous layer",
		Path:    path,
		Err:     err,
	}
}

func newFieldError(path, field, text, message string) *Error {
	return &Error{
		Type:    ErrTypeMalformedField,
		Message: fmt.Sprintf("%s %q, field left unchanged", message, text),
		Path:    path,
		Field:   field,
	}
}

func newSecureError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeSecureStore,
		Message: message,
		Path:    "secure:" + SecureNamespace,
		Err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	var cfgErr *Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Type == t
	}
	return false
}

// IsDocumentAbsent reports whether err is a missing-document diagnostic
func IsDocumentAbsent(err error) bool { return isType(err, ErrTypeDocumentAbsent) }

// IsDocumentInvalid reports whether err is a parse-failure diagnostic
func IsDocumentInvalid(err error) bool { return isType(err, ErrTypeDocumentInvalid) }

// IsMalformedField reports whether err is a malformed-field diagnostic
func IsMalformedField(err error) bool { return isType(err, ErrTypeMalformedField) }

// IsSecureStoreError reports whether err is a secure-store diagnostic
func IsSecureStoreError(err error) bool { return isType(err, ErrTypeSecureStore) }
