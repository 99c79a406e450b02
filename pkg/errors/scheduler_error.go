package errors

import (
	"errors"
	"fmt"
)

// Error codes, one per failure class the callers branch on.
const (
	CodeNotFound        = "not_found"
	CodeInvalidState    = "invalid_state"
	CodeAuthExpired     = "auth_expired"
	CodeTransientRemote = "transient_remote"
	CodePermanentRemote = "permanent_remote"
	CodeConflict        = "conflict"
	CodeInternal        = "internal_error"
)

type SchedulerError struct {
	Code    string
	Message string
	Err     error
}

func (e *SchedulerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SchedulerError) Unwrap() error {
	return e.Err
}

var (
	ErrNotFound = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeNotFound, Message: "Resource not found", Err: err}
	}
	ErrInvalidState = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeInvalidState, Message: "Action not valid for current status", Err: err}
	}
	ErrAuthExpired = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeAuthExpired, Message: "Channel credentials expired, re-authentication required", Err: err}
	}
	ErrTransientRemote = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeTransientRemote, Message: "Remote platform temporarily unavailable", Err: err}
	}
	ErrPermanentRemote = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodePermanentRemote, Message: "Remote platform rejected the request", Err: err}
	}
	ErrConflict = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeConflict, Message: "Concurrent modification, please retry", Err: err}
	}
	ErrInternal = func(err error) *SchedulerError {
		return &SchedulerError{Code: CodeInternal, Message: "Internal server error", Err: err}
	}
)

// Msg overrides the default message for the code.
func (e *SchedulerError) Msg(message string) *SchedulerError {
	e.Message = message
	return e
}

// CodeOf extracts the error code; unknown errors count as internal.
func CodeOf(err error) string {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryable reports whether the dispatcher retry budget applies to err.
func IsRetryable(err error) bool {
	return HasCode(err, CodeTransientRemote)
}
