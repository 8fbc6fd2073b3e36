package web2md

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// ENETWORK, EEXTRACT and EFILE are the three terminal pipeline failures;
// each stage reports its own code and callers pass it through unchanged.
const (
	ENETWORK  = "network"
	EEXTRACT  = "extract"
	EFILE     = "file"
	EINVALID  = "invalid"
	EINTERNAL = "internal"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code, message and, for network
// failures, the HTTP status that caused them.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// HTTP status code for ENETWORK errors derived from a response.
	// Zero when no response was received.
	StatusCode int

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("web2md error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code that wraps err.
// The message is the formatted text followed by the cause.
func WrapError(err error, code string, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// NetworkErrorf returns an ENETWORK error carrying the HTTP status code.
func NetworkErrorf(statusCode int, format string, args ...any) *Error {
	err := Errorf(ENETWORK, format, args...)
	err.StatusCode = statusCode
	return err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorStatusCode unwraps an application error and returns its HTTP status
// code, or zero when none is known.
func ErrorStatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
