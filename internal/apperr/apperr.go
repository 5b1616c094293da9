// Package apperr defines the error taxonomy shared by the CMS services.
//
// Handlers never inspect driver errors directly: services classify failures
// into one of the types below and errresponse maps them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports rejected input. Message is the headline failure.
type ValidationError struct {
	Message string
	Field   string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation returns a ValidationError without field information.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// ValidationField returns a ValidationError attributed to field.
func ValidationField(field, message string) error {
	return &ValidationError{
		Message: message,
		Field:   field,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// UnauthorizedError reports missing or rejected credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

// UnavailableError reports that a dependency cannot be reached.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func Unavailable(message string, err error) error {
	return &UnavailableError{Message: message, Err: err}
}

// DatabaseError reports a failed storage operation. Message is safe to show
// to clients; Err is the underlying cause and is only logged.
type DatabaseError struct {
	Message string
	Err     error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func Database(message string, err error) error {
	return &DatabaseError{Message: message, Err: err}
}

// UpstreamError carries a failed call to a proxied service. StatusCode is
// the status the upstream answered with, or 500 when it was unreachable.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d: %s: %v", e.StatusCode, e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func Upstream(status int, message string, err error) error {
	return &UpstreamError{StatusCode: status, Message: message, Err: err}
}

// IsClassified reports whether err already belongs to the taxonomy, so that
// services can pass it through instead of wrapping it in a DatabaseError.
func IsClassified(err error) bool {
	var (
		validation   *ValidationError
		notFound     *NotFoundError
		conflict     *ConflictError
		unauthorized *UnauthorizedError
		unavailable  *UnavailableError
		database     *DatabaseError
		upstream     *UpstreamError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &conflict) ||
		errors.As(err, &unauthorized) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &database) ||
		errors.As(err, &upstream)
}
