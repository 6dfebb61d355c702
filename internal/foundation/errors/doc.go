// Package errors provides the classified error primitives used across doclinks.
//
// A ClassifiedError carries a category (config, filesystem, markdown, ...), a
// severity, and structured context. Errors that abort a run are built with
// SeverityFatal; everything that happens while checking a single document is
// recovered by the caller and turned into a report entry instead.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryFileSystem, "scan root does not exist").
//		Fatal().
//		WithContext("path", dir).
//		WithCause(statErr).
//		Build()
package errors
