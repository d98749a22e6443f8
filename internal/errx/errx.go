// Package errx carries the error taxonomy shared by services and handlers.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInvalidCredentials
	KindUnverified
	KindConflict
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnverified:
		return "unverified"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	default:
		return "internal"
	}
}

// Status maps a kind to the HTTP status the API has always used for it.
// Conflicts answer 400, not 409.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidCredentials, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnverified:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a stable machine code and a safe message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	return e.Kind.Status()
}

// WithDetails returns a copy of e carrying a diagnostic detail string.
func (e *Error) WithDetails(details string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func InvalidCredentials(details string) *Error {
	return &Error{Kind: KindInvalidCredentials, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", Details: details}
}

func Unverified(details string) *Error {
	return &Error{Kind: KindUnverified, Code: "ACCOUNT_NOT_VERIFIED", Message: "Account not verified", Details: details}
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// Transport wraps an outbound delivery failure, keeping the cause as details.
func Transport(code, message string, err error) *Error {
	e := &Error{Kind: KindTransport, Code: code, Message: message, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// Internal wraps an unexpected store or runtime failure.
func Internal(code, message string, err error) *Error {
	e := &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// As extracts an *Error from err, classifying anything else as internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("INTERNAL_ERROR", "Internal server error", err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
