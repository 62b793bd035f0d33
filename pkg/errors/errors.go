package errors

import (
	"errors"
	"fmt"
)

// Code is a standardized, stable error classification string.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
	CodeConflict         Code = "CONFLICT"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeUnavailable      Code = "UNAVAILABLE"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
	CodeInternal         Code = "INTERNAL"
)

// AppError is the standard structured error used across the codebase. It
// carries a stable Code for programmatic handling, a human-readable Message,
// and an optional wrapped cause.
type AppError struct {
	Code    Code
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

// New builds an AppError with an explicit code.
func New(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Wrap annotates err with a message, preserving it as the unwrap chain.
// If err is already an *AppError, its code is preserved; otherwise the
// result is classified as CodeInternal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if As(err, &appErr) {
		return &AppError{Code: appErr.Code, Message: message, Err: err}
	}
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// NotFound builds a CodeNotFound AppError.
func NotFound(message string, err error) *AppError {
	return New(CodeNotFound, message, err)
}

// AlreadyExists builds a CodeAlreadyExists AppError.
func AlreadyExists(message string, err error) *AppError {
	return New(CodeAlreadyExists, message, err)
}

// Conflict builds a CodeConflict AppError.
func Conflict(message string, err error) *AppError {
	return New(CodeConflict, message, err)
}

// InvalidArgument builds a CodeInvalidArgument AppError.
func InvalidArgument(message string, err error) *AppError {
	return New(CodeInvalidArgument, message, err)
}

// Forbidden builds a CodeForbidden AppError.
func Forbidden(message string, err error) *AppError {
	return New(CodeForbidden, message, err)
}

// Unauthenticated builds a CodeUnauthenticated AppError.
func Unauthenticated(message string, err error) *AppError {
	return New(CodeUnauthenticated, message, err)
}

// Unavailable builds a CodeUnavailable AppError.
func Unavailable(message string, err error) *AppError {
	return New(CodeUnavailable, message, err)
}

// DeadlineExceeded builds a CodeDeadlineExceeded AppError.
func DeadlineExceeded(message string, err error) *AppError {
	return New(CodeDeadlineExceeded, message, err)
}

// Internal builds a CodeInternal AppError.
func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, err)
}

// CodeOf extracts the Code of err, walking the unwrap chain. Errors that
// are not AppErrors classify as CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// As, Is and Join re-export the standard library so callers only need to
// import this package when working with AppError chains.
func As(err error, target any) bool { return errors.As(err, target) }
func Is(err, target error) bool     { return errors.Is(err, target) }
func Join(errs ...error) error      { return errors.Join(errs...) }
