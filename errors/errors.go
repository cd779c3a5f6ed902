package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for propagation decisions.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuthentication     Kind = "authentication"
	KindGatewayUnavailable Kind = "gateway_unavailable"
	KindGatewayRejected    Kind = "gateway_rejected"
	KindReconciliation     Kind = "reconciliation"
	KindPersistence        Kind = "persistence"
)

// Error represents an application error with an HTTP-equivalent status code.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Bad cart or request input; reject the single request.
func Validation(message string, err error) *Error {
	return New(KindValidation, http.StatusBadRequest, message, err)
}

// Unverifiable webhook; reject without processing.
func Authentication(message string, err error) *Error {
	return New(KindAuthentication, http.StatusBadRequest, message, err)
}

// Transient gateway failure; the caller may signal "try again later".
func GatewayUnavailable(message string, err error) *Error {
	return New(KindGatewayUnavailable, http.StatusBadGateway, message, err)
}

// Permanent gateway refusal; not retried.
func GatewayRejected(message string, err error) *Error {
	return New(KindGatewayRejected, http.StatusUnprocessableEntity, message, err)
}

// Payment succeeded but a local entity could not be resolved; must reach an operator.
func Reconciliation(message string, err error) *Error {
	return New(KindReconciliation, http.StatusInternalServerError, message, err)
}

// Store unavailable or constraint violation.
func Persistence(message string, err error) *Error {
	return New(KindPersistence, http.StatusInternalServerError, message, err)
}

// KindOf returns the Kind of err, or "" if err is not an application Error.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// StatusCode maps err to an HTTP status, defaulting to 500 for unknown errors.
func StatusCode(err error) int {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
