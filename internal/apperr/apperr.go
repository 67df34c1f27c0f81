// Package apperr defines the error taxonomy surfaced by the API. Every
// failure leaving a service is tagged with a Kind so handlers can map it to
// an HTTP status and a machine-readable error body without string matching.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindMissingResume     Kind = "missing_resume"
	KindTailoring         Kind = "tailoring_failed"
	KindSourceUnavailable Kind = "source_unavailable"
	KindPersistence       Kind = "persistence"
)

// Error carries a kind plus a wrapped cause. The cause is logged server-side
// only; the API body exposes kind and message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Validation(message string) *Error { return newError(KindValidation, nil, message) }

func NotFound(message string) *Error { return newError(KindNotFound, nil, message) }

func Conflict(message string) *Error { return newError(KindConflict, nil, message) }

func MissingResume(message string) *Error { return newError(KindMissingResume, nil, message) }

func Tailoring(cause error, message string) *Error { return newError(KindTailoring, cause, message) }

func SourceUnavailable(cause error, message string) *Error {
	return newError(KindSourceUnavailable, cause, message)
}

func Persistence(cause error, message string) *Error {
	return newError(KindPersistence, cause, message)
}

// KindOf extracts the Kind from err, walking wrapped causes.
// Unclassified errors report as persistence failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// HTTPStatus maps a kind to the response code the API surface uses.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindMissingResume:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
