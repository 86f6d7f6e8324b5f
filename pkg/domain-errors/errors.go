// Package domainerrors carries the error taxonomy shared by services and transports.
//
// Services return *Error values (optionally wrapping a cause); handlers translate
// them with httputil.WriteError. Stores return sentinel errors instead and let the
// service decide which Code applies.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier exposed to API clients.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeInternal           Code = "internal_error"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeTransient          Code = "transient_failure"

	// Application lifecycle outcomes. The three guard codes must stay distinct:
	// remediation differs (nothing to do, pay, upload).
	CodeInvalidState     Code = "invalid_state"
	CodePaymentRequired  Code = "payment_required"
	CodeMissingDocuments Code = "missing_documents"
	CodeNotEligible      Code = "not_eligible"
	CodeDuplicateContent Code = "duplicate_content"

	// Save-and-resume one-time codes.
	CodeOTPInvalid         Code = "otp_invalid"
	CodeOTPExpired         Code = "otp_expired"
	CodeOTPTooManyAttempts Code = "otp_too_many_attempts"
)

// Error is a domain error with a code, a human-readable message and optional
// machine-readable details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
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

// New builds an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// WithDetails returns a copy of the error carrying the given details.
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// As extracts the outermost *Error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error in err carries code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal for non-domain errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}
