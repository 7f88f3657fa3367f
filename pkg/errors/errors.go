package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindNotFound     Kind = "NotFoundError"
	KindConstraint   Kind = "ConstraintError"
	KindStore        Kind = "StoreError"
	KindEmptyDataset Kind = "EmptyDatasetError"
)

// AppError represents an application error with a kind and the operation that produced it
type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Op      string `json:"op,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same kind, code and message.
// It lets the sentinel values below be matched with errors.Is after WithOp.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code && e.Message == t.Message
}

// NewAppError creates a new AppError
func NewAppError(kind Kind, code, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

// Validation creates an error for input rejected before any store mutation
func Validation(message string, err error) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    "VALIDATION_FAILED",
		Message: message,
		Err:     err,
	}
}

// NotFound creates an error for an update or delete that referenced a missing row
func NotFound(message string, err error) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: message,
		Err:     err,
	}
}

// Constraint creates an error for a uniqueness or foreign-key violation raised by the store
func Constraint(op, message string, err error) *AppError {
	return &AppError{
		Kind:    KindConstraint,
		Code:    "CONSTRAINT_VIOLATION",
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Store creates an error for a connectivity or I/O failure
func Store(op string, err error) *AppError {
	return &AppError{
		Kind:    KindStore,
		Code:    "STORE_FAILURE",
		Op:      op,
		Message: "store access failed",
		Err:     err,
	}
}

// EmptyDataset creates an error for an export requested against zero rows
func EmptyDataset(message string) *AppError {
	return &AppError{
		Kind:    KindEmptyDataset,
		Code:    "NO_DATA",
		Message: message,
	}
}

// Domain-specific errors

var (
	ErrPassengerNotFound = NotFound("passenger not found", nil)
	ErrDriverNotFound    = NotFound("driver not found", nil)
	ErrRideNotFound      = NotFound("ride not found", nil)
	ErrTicketNotFound    = NotFound("support ticket not found", nil)

	ErrNoData = EmptyDataset("no data")
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Anything unclassified came from below the store boundary
	return Store("unknown", err)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}

func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
func IsConstraint(err error) bool   { return IsKind(err, KindConstraint) }
func IsStore(err error) bool        { return IsKind(err, KindStore) }
func IsEmptyDataset(err error) bool { return IsKind(err, KindEmptyDataset) }

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WithOp returns a copy of appErr annotated with the operation name
func WithOp(appErr *AppError, op string) *AppError {
	if appErr == nil {
		return nil
	}
	cp := *appErr
	cp.Op = op
	return &cp
}
