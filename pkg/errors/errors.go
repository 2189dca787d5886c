package errors

import (
	"errors"
	"fmt"
)

// Error codes surfaced in structured {success:false, reason} responses.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeSlotFull          = "SLOT_FULL"
	CodeSlotBlocked       = "SLOT_BLOCKED"
	CodeSlotInPast        = "SLOT_IN_PAST"
	CodeSameDayCutoff     = "SAMEDAY_CUTOFF"
	CodeCancelWindow      = "CANCEL_WINDOW"
	CodeNotEligible       = "NOT_ELIGIBLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
)

var (
	ErrInvalidInput = errors.New("invalid input data")
	ErrNotFound     = errors.New("record not found")
)

type AppError struct {
	Code    string
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

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the application error code, defaulting to INTERNAL_ERROR
// for errors that did not originate from this package.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
