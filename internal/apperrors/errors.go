package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can pick a recovery path. NotFound is
// the only kind that triggers automatic recovery (full wizard reset).
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
)

// Error is a classified application error. Err may be nil when the failure
// originates locally rather than wrapping a lower-level cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// FromStatus maps an HTTP response status to an error kind. 404 must stay
// distinguishable: it is the one signal the wizard recovers from.
func FromStatus(status int, message string) *Error {
	switch {
	case status == http.StatusNotFound:
		return New(KindNotFound, message)
	case status >= 400 && status < 500:
		return New(KindValidation, message)
	default:
		return New(KindServer, message)
	}
}

// KindOf returns the kind of err, or KindServer when err carries none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindServer
}

func IsNotFound(err error) bool   { return is(err, KindNotFound) }
func IsValidation(err error) bool { return is(err, KindValidation) }

func is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// StatusOf maps an error kind back to an HTTP status for the handlers.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
