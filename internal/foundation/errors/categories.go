package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryFileSystem represents errors reading documents or probing link targets.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryMarkdown   ErrorCategory = "markdown"

	// CategoryNetwork represents external URL check failures.
	CategoryNetwork ErrorCategory = "network"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the run
	SeverityError   ErrorSeverity = "error"   // Fails the current document or link
	SeverityWarning ErrorSeverity = "warning" // Recorded, does not affect success
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}
