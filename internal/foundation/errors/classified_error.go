package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError represents a structured error with category, severity, and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Category returns the error category.
func (e *ClassifiedError) Category() ErrorCategory {
	return e.category
}

// Severity returns the error severity.
func (e *ClassifiedError) Severity() ErrorSeverity {
	return e.severity
}

// Message returns the error message without category or cause.
func (e *ClassifiedError) Message() string {
	return e.message
}

// Cause returns the underlying error.
func (e *ClassifiedError) Cause() error {
	return e.cause
}

// Context returns the error context.
func (e *ClassifiedError) Context() ErrorContext {
	return e.context
}

// Is implements error comparison for errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsFatal reports whether the error should abort the run.
func (e *ClassifiedError) IsFatal() bool {
	return e.severity == SeverityFatal
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory checks if the error chain carries the given category.
func HasCategory(err error, category ErrorCategory) bool {
	if classified, ok := AsClassified(err); ok {
		return classified.category == category
	}
	return false
}

// GetSeverity extracts the severity from an error, or returns SeverityError.
func GetSeverity(err error) ErrorSeverity {
	if classified, ok := AsClassified(err); ok {
		return classified.Severity()
	}
	return SeverityError
}
