package common

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation     Code = "validation"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeDeadlinePassed Code = "deadline_passed"
	CodeUploadFailed   Code = "upload_failed"
	CodeRateLimited    Code = "rate_limited"
	CodeInternal       Code = "internal"
)

// Error is the error type returned across service and repository boundaries.
// Message is safe to show to clients; Err is the underlying cause and is only logged.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}
	return CodeInternal
}
