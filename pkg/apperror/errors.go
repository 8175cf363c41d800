package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrForbiddenRole     = errors.New("forbidden role")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrMissingFields     = errors.New("no fields to update")
)

// Kinds reported to callers. Every error resolves to exactly one of them.
const (
	KindUnauthorized  = "unauthorized"
	KindForbidden     = "forbidden"
	KindForbiddenRole = "forbidden_role"
	KindNotFound      = "not_found"
	KindValidation    = "validation"
	KindRateLimited   = "rate_limited"
	KindMissingFields = "missing_fields"
	KindInternal      = "internal"
)

// AppError is a custom error type that can hold an HTTP status code
// and a machine readable reason such as "title_invalid".
type AppError struct {
	Code    int
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation returns an input validation failure with the given reason.
func Validation(reason, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Reason: reason, Message: message, Err: ErrInvalidInput}
}

// NotFound returns a not-found failure with the given reason.
func NotFound(reason, message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Reason: reason, Message: message, Err: ErrNotFound}
}

// Forbidden returns an authorization failure with the given reason.
func Forbidden(reason, message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Reason: reason, Message: message, Err: ErrForbidden}
}

// ForbiddenRole is returned for any attempt to create, assign or remove a founder.
func ForbiddenRole(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Reason: KindForbiddenRole, Message: message, Err: ErrForbiddenRole}
}

// RateLimited returns a cooldown failure with the given reason.
func RateLimited(reason, message string) *AppError {
	return &AppError{Code: http.StatusTooManyRequests, Reason: reason, Message: message, Err: ErrRateLimitExceeded}
}

// MissingFields is returned when a patch resolves to an empty change set.
func MissingFields() *AppError {
	return &AppError{Code: http.StatusBadRequest, Reason: KindMissingFields, Message: "no fields to update", Err: ErrMissingFields}
}

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbiddenRole):
		return KindForbiddenRole
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMissingFields):
		return KindMissingFields
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrRateLimitExceeded):
		return KindRateLimited
	default:
		return KindInternal
	}
}

// Reason returns the specific reason carried by an AppError, or the kind.
func Reason(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Reason != "" {
		return appErr.Reason
	}
	return Kind(err)
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	switch Kind(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden, KindForbiddenRole:
		return http.StatusForbidden
	case KindValidation, KindMissingFields:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
