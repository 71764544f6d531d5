package apperr

import (
	"errors"
	"fmt"
)

// Stable numeric codes surfaced to clients alongside the message.
const (
	CodeValidation = 400
	CodeForbidden  = 403
	CodeNotFound   = 404
	CodeConflict   = 409
	CodeCapacity   = 422
)

// Error is a business-rule failure with a stable code. These are terminal for
// the request; callers never retry them.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Capacity(message string) *Error {
	return &Error{Code: CodeCapacity, Message: message}
}

// As unwraps err into an *Error if it carries one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code int) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
