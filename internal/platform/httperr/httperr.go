// Package httperr defines the error kinds shared by all domain services and
// the echo error handler that renders them as JSON {"message": ...} bodies.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidPayment
)

// Error is a classified application error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		// validation and invalid payment
		return http.StatusBadRequest
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidPayment marks a payment that would violate the billing ledger
// invariants. It maps to 400 like a validation error but is distinguishable
// for callers that care.
func InvalidPayment(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidPayment, Message: fmt.Sprintf(format, args...)}
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsValidation(err error) bool     { return is(err, KindValidation) }
func IsNotFound(err error) bool       { return is(err, KindNotFound) }
func IsConflict(err error) bool       { return is(err, KindConflict) }
func IsAuthorization(err error) bool  { return is(err, KindAuthorization) }
func IsInvalidPayment(err error) bool { return is(err, KindInvalidPayment) }
