package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConfiguration indicates that a required setting (usually a secret) is missing.
var ErrConfiguration = errors.New("configuration error")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUpstream indicates that a third-party provider failed or returned unusable data.
var ErrUpstream = errors.New("upstream provider error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for store failures so the cause survives errors.Is/As checks.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a descriptive message.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError wraps ErrValidation with a descriptive message.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewConfigurationError wraps ErrConfiguration with the name of the missing setting.
func NewConfigurationError(setting string) error {
	return fmt.Errorf("%w: %s not configured", ErrConfiguration, setting)
}

// NewUpstreamError wraps ErrUpstream with a descriptive message.
func NewUpstreamError(message string) error {
	return fmt.Errorf("%w: %s", ErrUpstream, message)
}

// Message returns the human-readable part of err, without the sentinel prefix added by the New*Error helpers.
func Message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrNotFound, ErrValidation, ErrDuplicate, ErrConfiguration, ErrUnauthorized, ErrUpstream} {
		if errors.Is(err, sentinel) {
			if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
				return trimmed
			}
		}
	}
	return msg
}
