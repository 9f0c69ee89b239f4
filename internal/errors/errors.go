package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"simrng/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped AppError
// is kept; domain sentinels are mapped to their codes.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// FromDomain converts a domain error into an AppError carrying its code.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return &AppError{
		Code:    codeFor(err),
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HTTPStatus maps an error code to the status the API reports it with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidInput, CodeValidationError, CodeInvalidIntervals, CodeDegenerateRange:
		return http.StatusBadRequest
	case CodeEmptySample, CodeNoGeneration:
		return http.StatusConflict
	case CodeNonConvergent:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case stderrors.Is(err, core.ErrNoGeneration):
		return CodeNoGeneration
	case stderrors.Is(err, core.ErrEmptySample):
		return CodeEmptySample
	case stderrors.Is(err, core.ErrInvalidIntervalCount):
		return CodeInvalidIntervals
	case stderrors.Is(err, core.ErrDegenerateRange):
		return CodeDegenerateRange
	case stderrors.Is(err, core.ErrNonConvergentInversion):
		return CodeNonConvergent
	case stderrors.Is(err, core.ErrInvalidDistribution),
		stderrors.Is(err, core.ErrInvalidSignificance),
		stderrors.Is(err, core.ErrSampleTooLarge):
		return CodeInvalidInput
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnavailable      = "UNAVAILABLE"
	CodeEmptySample      = "EMPTY_SAMPLE"
	CodeNoGeneration     = "NO_GENERATION"
	CodeInvalidIntervals = "INVALID_INTERVAL_COUNT"
	CodeDegenerateRange  = "DEGENERATE_RANGE"
	CodeNonConvergent    = "NON_CONVERGENT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: message,
		Cause:   cause,
	}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func Unavailable(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: message,
		Cause:   cause,
	}
}
