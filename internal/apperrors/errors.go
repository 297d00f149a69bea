// Package apperrors defines the failure kinds the API reports to callers and
// the HTTP status each kind maps to.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindBadRequest          Kind = "bad_request"
	KindMissingField        Kind = "missing_field"
	KindPayloadTooLarge     Kind = "payload_too_large"
	KindUnsupportedType     Kind = "unsupported_type"
	KindEmptyContent        Kind = "empty_content"
	KindExtractionFailure   Kind = "extraction_failure"
	KindUnconfigured        Kind = "unconfigured"
	KindProviderError       Kind = "provider_error"
	KindUnparseableResponse Kind = "unparseable_response"
	KindTooManyRequests     Kind = "too_many_requests"
	KindInternal            Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindBadRequest:          http.StatusBadRequest,
	KindMissingField:        http.StatusBadRequest,
	KindPayloadTooLarge:     http.StatusRequestEntityTooLarge,
	KindUnsupportedType:     http.StatusUnsupportedMediaType,
	KindEmptyContent:        http.StatusUnprocessableEntity,
	KindExtractionFailure:   http.StatusInternalServerError,
	KindUnconfigured:        http.StatusInternalServerError,
	KindProviderError:       http.StatusBadGateway,
	KindUnparseableResponse: http.StatusInternalServerError,
	KindTooManyRequests:     http.StatusTooManyRequests,
	KindInternal:            http.StatusInternalServerError,
}

// Error is a failure that is safe to render to the caller.
type Error struct {
	Kind    Kind
	Message string
	// Detail carries an upstream error message, when there is one.
	Detail string
	// Debug carries a slice of raw model output for UnparseableResponse.
	Debug string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	e := &Error{Kind: kind, Message: message, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// KindOf reports the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
