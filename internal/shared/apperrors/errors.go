package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business error so controllers can map it to an HTTP
// status without inspecting message text.
type Kind string

const (
	KindValidation   Kind = "validation"    // bad input shape or range
	KindForbidden    Kind = "forbidden"     // wrong role or non-owner
	KindNotFound     Kind = "not_found"     // missing listing/booking/user
	KindConflict     Kind = "conflict"      // date overlap
	KindInvalidState Kind = "invalid_state" // illegal status transition
	KindUnavailable  Kind = "unavailable"   // listing not active/approved
	KindPayment      Kind = "payment"       // payment collaborator rejected
	KindUpstream     Kind = "upstream"      // collaborator unreachable/failed
	KindInternal     Kind = "internal"
)

// Error is the typed error carried from services up to controllers.
type Error struct {
	Kind    Kind
	Message string
	Field   string // offending field for validation errors, optional
	Err     error  // wrapped cause, optional
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

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindUnavailable:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	case KindPayment:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a field-level validation error so the client knows
// which field violated which constraint.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr, ok := As(err); ok {
		return appErr.Kind == kind
	}
	return false
}
