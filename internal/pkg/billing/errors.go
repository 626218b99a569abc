package billing

import (
	"errors"
	"fmt"
)

// Code classifies billing failures so transport layers can map them to
// status codes without inspecting message strings.
type Code string

const (
	CodeValidation    Code = "validation_error"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeForbidden     Code = "forbidden"
	CodeQuotaExceeded Code = "quota_exceeded"
	CodeInvalidState  Code = "invalid_state"
	CodeGateway       Code = "external_gateway_error"
	CodeInternal      Code = "internal_error"
)

// Error is a domain-rule violation or dependency failure. Details carries
// enough context for the caller to act on (current usage, suggested plan, ...).
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetail attaches a context key/value and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the billing code from an error chain, defaulting to
// CodeInternal for unexpected failures.
func CodeOf(err error) Code {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeInternal
}

// MessageOf returns the user-facing message of a billing error. Unexpected
// failures collapse to a generic message so internals never leak.
func MessageOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return "internal server error"
}

// DetailsOf returns the context map of a billing error, or nil.
func DetailsOf(err error) map[string]interface{} {
	var be *Error
	if errors.As(err, &be) {
		return be.Details
	}
	return nil
}
