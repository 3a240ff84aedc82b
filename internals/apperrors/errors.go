package apperrors

import (
	"fmt"
	"net/http"
)

// Reason codes give the client a machine-readable explanation alongside the
// human message. Codes 1-99 are generic; codes >= 100 are scoped to a status.
type Reason int

const (
	ReasonNone             Reason = 0
	ReasonActionNotAllowed Reason = 1
	ReasonRequired         Reason = 2
	ReasonNotFound         Reason = 3
	ReasonDisabled         Reason = 4
	ReasonExpired          Reason = 5
	ReasonAlreadyExists    Reason = 6
	ReasonClientError      Reason = 99
	ReasonAccessDenied     Reason = 101
	ReasonAccountInactive  Reason = 102
	ReasonStaffOnly        Reason = 121
	ReasonStaffAdminOnly   Reason = 1211
)

// Kind classifies an Error for boundary handling and logging severity.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindForbidden
	KindNotFound
	KindServer
	KindServiceUnavailable
)

// Error is the single error type crossing the workflow/boundary seam. The
// controllers never inspect messages, only Kind and Reason.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	// Err keeps the underlying cause for server-side logs; it is never sent
	// to the client.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithReason returns a copy of the error carrying the given reason code.
func (e *Error) WithReason(reason Reason) *Error {
	clone := *e
	clone.Reason = reason
	return &clone
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error { return newError(KindValidation, message) }

func Authentication(message string) *Error { return newError(KindAuthentication, message) }

func Forbidden(message string) *Error { return newError(KindForbidden, message) }

func NotFound(message string) *Error { return newError(KindNotFound, message) }

func Server(message string, cause error) *Error {
	e := newError(KindServer, message)
	e.Err = cause
	return e
}

func ServiceUnavailable(message string) *Error {
	return newError(KindServiceUnavailable, message)
}

// Is lets callers match on kind with errors.Is against the sentinel-style
// constructors, e.g. errors.Is(err, apperrors.NotFound("")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// HasReason reports whether err is an *Error carrying the given reason code.
func HasReason(err error, reason Reason) bool {
	e, ok := err.(*Error)
	return ok && e.Reason == reason
}
