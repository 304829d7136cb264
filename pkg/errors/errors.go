package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so wrapped clones still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound                = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized            = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation              = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal                = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrViewNotFound            = New("VIEW_NOT_FOUND", http.StatusNotFound, "view not found or expired")
	ErrTimetableNotFound       = New("TIMETABLE_NOT_FOUND", http.StatusNotFound, "timetable not found")
	ErrTimetableSourceDisabled = New("TIMETABLE_SOURCE_DISABLED", http.StatusServiceUnavailable, "timetable lookup by id is not configured")
	ErrUnsupportedFormat       = New("UNSUPPORTED_FORMAT", http.StatusBadRequest, "unsupported export format")
	ErrExportFailed            = New("EXPORT_FAILED", http.StatusInternalServerError, "export failed")
	ErrExportExpired           = New("EXPORT_EXPIRED", http.StatusGone, "export link expired")
	ErrExportNotFound          = New("EXPORT_NOT_FOUND", http.StatusNotFound, "export link not recognised")
	ErrNothingToExport         = New("NOTHING_TO_EXPORT", http.StatusUnprocessableEntity, "the active view has no timetable to export")
	ErrPayloadTooLarge         = New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "request payload too large")
	ErrCacheMiss               = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
