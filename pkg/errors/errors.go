package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a settlement error for handling at the boundary
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryAlreadySettled ErrorCategory = "already_settled"
	CategoryConflict       ErrorCategory = "conflict"
	CategoryPersistence    ErrorCategory = "persistence"
)

// SettlementError is a structured domain error with a stable code.
// Every failure crossing a service boundary is one of these; services never
// panic or leak raw driver errors to handlers.
type SettlementError struct {
	Code     string
	Message  string
	Category ErrorCategory
	cause    error
}

func (e *SettlementError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SettlementError) Unwrap() error {
	return e.cause
}

// New creates a new SettlementError
func New(code, message string, category ErrorCategory) *SettlementError {
	return &SettlementError{Code: code, Message: message, Category: category}
}

// Wrap creates a SettlementError that wraps an underlying cause
func Wrap(err error, code, message string, category ErrorCategory) *SettlementError {
	return &SettlementError{Code: code, Message: message, Category: category, cause: err}
}

// Validation creates a validation error for a named field
func Validation(field, message string) *SettlementError {
	return &SettlementError{
		Code:     "INVALID_INPUT",
		Message:  fmt.Sprintf("%s: %s", field, message),
		Category: CategoryValidation,
	}
}

// NotFound creates a not-found error for a named entity
func NotFound(entity, id string) *SettlementError {
	return &SettlementError{
		Code:     "NOT_FOUND",
		Message:  fmt.Sprintf("%s %s not found", entity, id),
		Category: CategoryNotFound,
	}
}

// AlreadySettled signals a payment attempted against a fully paid settlement
func AlreadySettled() *SettlementError {
	return &SettlementError{
		Code:     "ALREADY_SETTLED",
		Message:  "settlement already fully paid",
		Category: CategoryAlreadySettled,
	}
}

// Conflict creates a conflict error (duplicate period, bad state transition)
func Conflict(message string) *SettlementError {
	return &SettlementError{
		Code:     "CONFLICT",
		Message:  message,
		Category: CategoryConflict,
	}
}

// Persistence wraps a database failure
func Persistence(err error, op string) *SettlementError {
	return &SettlementError{
		Code:     "PERSISTENCE_FAILURE",
		Message:  op + " failed",
		Category: CategoryPersistence,
		cause:    err,
	}
}

// CategoryOf returns the category of err, or CategoryPersistence for
// unclassified errors
func CategoryOf(err error) ErrorCategory {
	var se *SettlementError
	if errors.As(err, &se) {
		return se.Category
	}
	return CategoryPersistence
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return CategoryOf(err) == CategoryValidation
}
